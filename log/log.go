package log

import (
	"fmt"
	"os"
)

// Verbose controls whether debug messages are being printed.
var Verbose bool

// Log prints a formatted message to os.Stderr.
func Log(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format, a...)
}

// Debug prints a formatted debug message to os.Stderr if verbose output is selected.
func Debug(format string, a ...interface{}) {
	if Verbose {
		fmt.Fprintf(os.Stderr, "\033[36mDebug: \033[0m"+format, a...)
	}
}

// Success prints a formatted success message to os.Stderr.
func Success(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "\033[32mSuccess: \033[0m"+format, a...)
}

// Warning prints a formatted warning to os.Stderr.
func Warning(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "\033[33mWarning: \033[0m"+format, a...)
}

// Error prints a formatted error message to os.Stderr.
func Error(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "\033[31mError: \033[0m"+format, a...)
}

// Fatal prints a formatted error message to os.Stderr and terminates the program.
func Fatal(format string, a ...interface{}) {
	Error(format, a...)
	fmt.Fprintf(os.Stderr, "\033[31mA fatal error occured. Exiting...\033[0m\n")
	os.Exit(1)
}

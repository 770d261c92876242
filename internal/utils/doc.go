// Package utils collects shared infrastructure for the command-line
// application: the zap logger factory, the Viper configuration loader, the
// command context accessor, and the flushing writer used for immediate
// console output.
package utils

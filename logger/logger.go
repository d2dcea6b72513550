// Package logger provides adapters for popular logger libraries to work with twothree's Logger interface.
//
// The adapters let a tree report misuse through an existing logger without
// writing boilerplate. Note that the standard library's slog.Logger already
// implements twothree.Logger directly.
//
// Example with zap:
//
//	import (
//	    "twothree"
//	    "twothree/logger"
//	    "go.uber.org/zap"
//	)
//
//	func main() {
//	    zapLogger, _ := zap.NewProduction()
//
//	    words := twothree.NewOrdered[string, int](
//	        twothree.WithLogger(logger.NewZap(zapLogger)),
//	    )
//	    words.Insert("apple", 1)
//	}
package logger

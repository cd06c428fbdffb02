// Package logger wraps zap with a global sugared console logger and
// context helpers (ToContext/FromContext/WithName/WithKV/WithFields).
//
// Operations take a context and log through the logger it carries, so a
// command can name its logger once and every layer below inherits it.
package logger

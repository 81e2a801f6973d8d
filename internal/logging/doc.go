// Package logging builds zerolog loggers from configuration and carries them
// through context.Context.
package logging

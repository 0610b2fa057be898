// Package stressconfig builds the configuration of the liststress command from
// command-line options and LISTKIT_STRESS_* environment variables.
package stressconfig

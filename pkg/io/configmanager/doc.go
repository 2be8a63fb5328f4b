// Package configmanager loads apidelta configuration from defaults, an
// optional .apidelta.yaml file, APIDELTA_* environment variables and
// command-line flags, in increasing order of precedence.
package configmanager

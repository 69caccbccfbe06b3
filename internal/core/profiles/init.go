// Package profiles registers the dataset profiles with the core registry.
// Import this package to ensure all profiles are registered.
package profiles

// Each profile file uses init() to register its profile.

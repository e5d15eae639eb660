// Package config loads application manifests for prebuilt.
//
// A manifest names the application, its executables and how it should be
// installed. Values are layered, later layers winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the manifest file, TOML or YAML by extension
//  3. PREBUILT_* environment variables (PREBUILT_APP_SCOPE=all-users sets
//     app.scope; the first underscore after the prefix separates the
//     section from the key)
//  4. explicit overrides, usually from command-line flags
package config

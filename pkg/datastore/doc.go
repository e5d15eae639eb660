// Package datastore persists install receipts: one TOML document per
// installed application, written under the state directory when an install
// succeeds and removed when the application is uninstalled. A receipt holds
// everything needed to rebuild the installation record later, so that an
// application can be uninstalled by name.
package datastore

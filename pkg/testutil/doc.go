// Package testutil provides utilities for testing prebuilt components.
//
// Key components:
//   - NewTestFS: afero-backed in-memory filesystem for fast, isolated tests
//   - FaultyFS: wraps a filesystem and injects failures on chosen operations
//   - FakeRegistrar: in-memory shortcut registrar keyed by scope
//   - Journal: shared, ordered record of filesystem and registrar events,
//     used to assert that shortcuts go away before files do
//
// Usage guidelines:
//   - Install and rollback tests run on NewTestFS
//   - Move tests run on the OS filesystem inside t.TempDir, since they
//     depend on real rename semantics
//   - All test data should be defined inline, not in external files
package testutil

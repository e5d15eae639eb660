// Package install performs the forward transition of the installation
// lifecycle: it places an application's artifacts in their target
// directory and registers their shortcuts.
//
// Install is all-or-nothing for filesystem content. Every directory it
// creates and every file it copies is recorded in a pending transaction;
// if a copy fails the transaction is rolled back in reverse order and the
// host is left as it was. Shortcut registration runs after all copies
// succeeded. A registration failure does not undo the copies: the result
// reports which shortcuts are missing and the error is coded
// errors.ErrShortcutRegistration.
//
// Install never overwrites: when any artifact destination already exists
// the call fails with errors.ErrTargetConflict before anything is written.
package install

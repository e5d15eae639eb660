// Package prebuilt is the entry point for installing an application whose
// executables are already built.
//
// An App owns one installation record and drives the installer and the
// uninstaller with it:
//
//	app, err := prebuilt.New(
//		[]types.Executable{{BinaryPath: "app.exe", ShortcutName: "MyApp", Primary: true}},
//		"/opt/myapp",
//	)
//	if err != nil {
//		return err
//	}
//	if _, err := app.Install("/build/out"); err != nil {
//		return err
//	}
//	...
//	_, err = app.UninstallTo("/backup/myapp")
//
// Install is all-or-nothing for files. A shortcut that cannot be registered
// does not undo the install; the error is an ErrShortcutRegistration error
// and the result says which shortcuts are missing. Uninstall removes every
// shortcut before touching files, and reports StateDegraded when it stops
// part way.
//
// When a receipt store is configured the App records successful installs
// so they can be found again with FromReceipt.
package prebuilt

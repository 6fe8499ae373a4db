// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package stdlib provides small filesystem helpers shared by the config
// loader and the top-level Load: existence checks for files and directories, usable
// against the OS filesystem or any fs.FS.
package stdlib

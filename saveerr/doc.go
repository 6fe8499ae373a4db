// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package saveerr defines constant error types using a custom Error string
// type. It centralizes the error kinds raised across the decoder — corrupt
// data, end-of-data, unknown property/struct tags, unexpected values — so
// callers can compare with errors.Is() regardless of which component raised
// the error.
package saveerr

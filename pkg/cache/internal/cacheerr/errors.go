// Package cacheerr holds the sentinel errors shared by every cache driver.
package cacheerr

import "errors"

var ErrKeyNotFound = errors.New("key not found")

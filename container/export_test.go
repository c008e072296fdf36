// SPDX-License-Identifier: MIT

package container

// WriteAtomic exposes the commit step so tests can mutate the destination
// between the pre-check and the final link.
var WriteAtomic = writeAtomic

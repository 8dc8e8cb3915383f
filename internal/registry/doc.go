// Package registry pairs the compiled-in component handlers with the
// descriptors built from their on-disk manifests, producing the command
// surface the dispatcher resolves against.
//
// Components register explicitly through the Component interface; there is
// no runtime scanning. A component is only admitted to the surface when its
// manifest loads and passes a strict parity check against the handler's
// input struct. Validated descriptors are cached by a content hash of the
// manifest source, so unchanged components skip re-validation on later runs.
package registry

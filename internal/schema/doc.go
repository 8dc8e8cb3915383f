// Package schema defines the HCL shapes of component manifests and the
// serializable descriptor data derived from them. Manifest structures are
// decode targets for gohcl; DescriptorData is the only form the on-disk
// descriptor cache is allowed to hold.
package schema

// Package formats extracts the texture internal-format enumerants from a parsed
// API registry.
//
// The extraction runs as an ordered list of passes over the registry's enumerant
// groups. Each pass either commits matches to a shared ValueRegistry, filters a
// core group definition against it, or commits matches and appends them to the
// internal-format list. Commits are first-registration-wins on both name and
// value, so the order of passes decides every collision and is part of the
// contract.
//
// # Matching
//
// A Query selects enumerant groups by attribute (Match), optionally rejects
// groups that also satisfy a second attribute set (Unless), and filters single
// enumerant names with a NamePattern. Attribute checks fail closed: a missing
// attribute is a non-match, never an error.
//
// # Default passes
//
// DefaultPasses returns the built-in list:
//
//	prime       register   vendor=ARB unless group=*
//	core        group      InternalFormat minus the untyped base formats
//	astc        heuristic  vendor=OES start=0x93B0
//	etc         heuristic  vendor=OES start=0x9270
//	dxt-rgb     heuristic  vendor=INTEL start=0x83F0, DXT/BPTC names
//	dxt-srgb    heuristic  vendor=NV start=0x8C10, DXT/BPTC names
//	bptc        heuristic  vendor=NV start=0x8E10, DXT/BPTC names
package formats

// Package packfile loads condition sets and target configurations from YAML.
//
// A file has three optional sections:
//
//	conditions:
//	  - id: GCC
//	    description: GNU toolchain
//	    expressions:
//	      - require: {Tcompiler: GCC}
//	  - id: CM4_GCC
//	    expressions:
//	      - require: {Dcore: Cortex-M4}
//	      - require: {condition: GCC}
//	      - deny: {Dname: "*_LITE"}
//	checks:
//	  - id: FAST_CLOCK
//	    expr: int(Dclock) >= 168000000
//	    grade: FULFILLED
//	targets:
//	  - name: f407-gcc
//	    attributes: {Dname: STM32F407VG, Dcore: Cortex-M4, Tcompiler: GCC}
//
// Each expression entry has exactly one key, its role. The expression's
// domain is inferred from the attribute names, and expressions keep the order
// in which they appear in the file.
//
// Checks are CEL expressions (see package cel). Their variables are the
// standard device and toolchain attribute names plus every attribute name
// used by a target in the file.
package packfile

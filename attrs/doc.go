// Package attrs holds the attribute sets conditions are matched against and
// the wildcard rules used to compare attribute values.
//
// Attribute names follow the package description conventions: names starting
// with D or P describe the device (Dname, Dcore, Dfpu, Pname), names starting
// with T describe the toolchain (Tcompiler, Toptions) and names starting with C
// describe components (Cclass, Cgroup).
package attrs

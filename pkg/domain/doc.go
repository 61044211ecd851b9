/*
Package domain contains the core domain models of the luckydraw picker.

It defines the fundamental entities of the draw flow, such as Step definitions,
lookup tables, the accumulated picks and the Flow State. This package is kept pure
and free of external dependencies like I/O or randomness, following Hexagonal
Architecture principles.

# Key Entities

  - StepDefinition: One attribute to be drawn, backed by a Static or Dynamic resource.
  - LookupTable: Maps a picked display value to a resource identifier fragment.
  - PickRecord: Insertion-ordered record of the values drawn so far.
  - FlowState: Captures the runtime snapshot of a flow (Phase, Position, Picks, Options).
*/
package domain

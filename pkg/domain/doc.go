/*
Package domain contains the core domain models shared by the Arbor packages.

It defines the declarative description of a task tree, the lifecycle events
emitted while the engine runs and the sentinel errors callers match against.
This package is kept pure and free of external dependencies like I/O or
transport, following Hexagonal Architecture principles.

# Key Entities

  - NodeSpec: Declarative description of a task tree (Leaf or Composite).
  - LifecycleHooks: Callbacks fired on execution, tree changes, notifications and transitions.
  - ErrCycle: Returned when adding a node would make the tree cyclic.
*/
package domain

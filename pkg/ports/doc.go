/*
Package ports defines the driven ports (interfaces) of the Arbor engine.

These interfaces decouple the engine from the concrete sources of tree
definitions and from the notification hub implementation.

# Key Interfaces

  - SpecLoader: Responsible for producing a tree definition (e.g., from a file, memory or the DSL).
  - Publisher: The subscribe/unsubscribe/notify contract shared by notify.Hub and the Engine.
*/
package ports

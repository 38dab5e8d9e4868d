/*
Package ports defines the driven ports (interfaces) of the chat simulator.

These interfaces decouple the engine and the button dispatcher from external
implementations, allowing them to work with various flow sources, storage backends,
dialogs and device capabilities.

# Key Interfaces

  - NodeLoader: loads ChatNode definitions (Loam directory, flow file, remote flow).
  - StateStore: persists and loads session State.
  - DistributedLocker: coordinates concurrent access to a session across replicas.
  - Navigator, VariableStore, Transcript, FlowFetcher: per-session effects of a button.
  - Platform, Prompter, OTPSource: device and dialog capabilities.
*/
package ports

// Command slotsync runs and controls the slot synchronization daemon.
package main

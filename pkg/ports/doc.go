// Package ports declares the interfaces between the conversation engine and
// its pluggable infrastructure: session persistence and distributed locking.
package ports

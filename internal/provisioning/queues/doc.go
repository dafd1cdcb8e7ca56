// Package queues creates FIFO queues and binds each one to its target
// function through an event source mapping.
//
// Queues are processed in order and the first fatal failure aborts the
// call. Queues created earlier in the same call are not removed.
package queues

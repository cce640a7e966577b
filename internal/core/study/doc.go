// Package study holds the quiz and flashcard session state machines.
//
// States are plain values. Every transition returns a new state and leaves
// the receiver untouched; transitions that are not allowed in the current
// state return the state unchanged.
package study

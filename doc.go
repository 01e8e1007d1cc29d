// Package promptpipe implements a linear, stateful prompt-pipeline
// executor. A pipeline is a fixed ordered sequence of named steps over one
// typed state value; each step reads the state, optionally consults a model
// gateway, and overwrites the fields it owns.
//
// The executor's one hard guarantee is its failure boundary: a step error
// (or panic) aborts the remaining steps and degrades into a well-formed
// state with the failure recorded in designated fields, never into an error
// or panic escaping Run.
//
// The agents subpackages define the four shipped pipelines (chat, coding,
// research, video strategy analysis), the server package exposes them as
// remotely invocable tools over the Model Context Protocol, and the client
// package is an interactive terminal front end for those tools.
package promptpipe

package promptpipe

import (
	"github.com/fogfish/opts"

	"github.com/promptpipe/promptpipe/internal/broker"
)

// Name sets the pipeline identifier used in run events and logs.
func Name[S any](name string) opts.Option[Pipeline[S]] {
	return opts.Type[Pipeline[S]](func(p *Pipeline[S]) error {
		p.name = name
		return nil
	})
}

// Steps appends steps to the pipeline in execution order.
func Steps[S any](step Step[S], extra ...Step[S]) opts.Option[Pipeline[S]] {
	return opts.Type[Pipeline[S]](func(p *Pipeline[S]) error {
		p.steps = append(p.steps, step)
		p.steps = append(p.steps, extra...)
		return nil
	})
}

// OnFailure sets the writer invoked when a step fails. It receives the
// state as it stood at the failing step plus the wrapped error, and records
// the failure in the state's designated error-bearing fields.
func OnFailure[S any](fn func(*S, error)) opts.Option[Pipeline[S]] {
	return opts.Type[Pipeline[S]](func(p *Pipeline[S]) error {
		p.fail = fn
		return nil
	})
}

// Events routes the pipeline's run events to the given topic.
func Events[S any](topic broker.Topic) opts.Option[Pipeline[S]] {
	return opts.Type[Pipeline[S]](func(p *Pipeline[S]) error {
		p.topic = topic
		return nil
	})
}

// New builds a pipeline from the provided options. It panics when an option
// fails to apply, which only happens on programmer error.
func New[S any](options ...opts.Option[Pipeline[S]]) *Pipeline[S] {
	p := &Pipeline[S]{topic: broker.Noop()}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	if p.name == "" {
		p.name = "pipeline"
	}
	return p
}

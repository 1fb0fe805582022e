// Package proxy implements the event channels that feed a transiro runtime.
//
// Two interchangeable disciplines are provided. Buffered offers a fixed
// capacity and a non-blocking Send that fails loudly on overflow; Awaiting
// offers a suspending Send that resumes only after the runtime processed
// the event, giving natural backpressure. Both support graceful Finish,
// forceful Cancel, and a restricted send-only Input handle that is safe to
// hand to operation tasks and external producers.
package proxy

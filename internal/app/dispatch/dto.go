package dispatch

import "relaybot/internal/domain/interaction"

type Response struct {
	Ack interaction.Acknowledgment
	// Deferred reports whether the deferral call reached the platform.
	Deferred bool
	// Scheduled reports whether a follow-up unit of work was submitted.
	Scheduled bool
}

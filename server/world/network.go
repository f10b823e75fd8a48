package world

// Network is the outbound side of the network/observer layer. All calls are fire-and-forget: the world never
// waits for them to be acknowledged.
type Network interface {
	// NotifyObservers sends a payload to every current observer of the entity with the runtime ID passed.
	NotifyObservers(entityID uint64, payload any)
	// SendToActor sends a payload to the actor with the runtime ID passed.
	SendToActor(actorID uint64, payload any)
}

// NopNetwork is a Network that drops every payload.
type NopNetwork struct{}

// NotifyObservers ...
func (NopNetwork) NotifyObservers(uint64, any) {}

// SendToActor ...
func (NopNetwork) SendToActor(uint64, any) {}

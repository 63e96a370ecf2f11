package auth

// Subscription is a cancellable handle on the session-change stream.
// Consumers range over C and call Unsubscribe on teardown; the channel is
// closed once unsubscribed.
type Subscription struct {
	C      <-chan Notification
	cancel func()
}

func (s *Subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Subscribe registers a listener for session changes. Delivery is
// best-effort: a subscriber that stops draining its channel loses events
// rather than blocking sign-in/sign-out.
func (s *Service) Subscribe() *Subscription {
	ch := make(chan Notification, 8)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
		s.mu.Unlock()
	}
	return &Subscription{C: ch, cancel: cancel}
}

func (s *Service) notify(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- n:
		default:
			s.logger.Warn("dropping session notification for slow subscriber")
		}
	}
}

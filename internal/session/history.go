package session

// AppendRecommendation saves a new advisory result at the end of the history.
func (s *State) AppendRecommendation(kind RecommendationKind, title, body string) RecommendationRecord {
	rec := RecommendationRecord{
		ID:        s.newID(),
		Kind:      kind,
		Title:     title,
		Body:      body,
		CreatedAt: s.now(),
	}
	s.records = append(s.records, rec)
	return rec
}

// Recommendations returns the saved records newest first.
func (s *State) Recommendations() []RecommendationRecord {
	out := make([]RecommendationRecord, len(s.records))
	for i, rec := range s.records {
		out[len(s.records)-1-i] = rec
	}
	return out
}

// RecommendationCount returns the number of saved records.
func (s *State) RecommendationCount() int { return len(s.records) }

// FindRecommendation looks a record up by ID.
func (s *State) FindRecommendation(id string) (RecommendationRecord, error) {
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return RecommendationRecord{}, &NotFoundError{Resource: "recommendation", ID: id}
}

// DeleteRecommendation removes the first record structurally equal to rec.
// It is a no-op when no record matches.
func (s *State) DeleteRecommendation(rec RecommendationRecord) {
	for i, existing := range s.records {
		if sameRecord(existing, rec) {
			s.records = append(s.records[:i:i], s.records[i+1:]...)
			return
		}
	}
}

func sameRecord(a, b RecommendationRecord) bool {
	return a.ID == b.ID &&
		a.Kind == b.Kind &&
		a.Title == b.Title &&
		a.Body == b.Body &&
		a.CreatedAt.Equal(b.CreatedAt)
}

// ClearRecommendations empties the history.
func (s *State) ClearRecommendations() { s.records = nil }

// AppendChatMessage appends one transcript entry.
func (s *State) AppendChatMessage(role MessageRole, content string) ChatMessage {
	msg := ChatMessage{Role: role, Content: content}
	s.chat = append(s.chat, msg)
	return msg
}

// Chat returns a copy of the transcript in order.
func (s *State) Chat() []ChatMessage {
	out := make([]ChatMessage, len(s.chat))
	copy(out, s.chat)
	return out
}

// ChatCount returns the number of transcript entries.
func (s *State) ChatCount() int { return len(s.chat) }

// ClearChat empties the transcript.
func (s *State) ClearChat() { s.chat = nil }

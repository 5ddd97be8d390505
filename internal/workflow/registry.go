package workflow

import "sync"

// Registry hands out per-user flow instances so the HTTP surface can route
// commands to the right state machine. A flow that reached a terminal state is
// replaced with a fresh one the next time the user issues a command.
type Registry struct {
	mu          sync.Mutex
	generations map[string]*GenerationFlow
	voiceNotes  map[string]*VoiceNoteFlow

	generator   ImageGenerator
	imageSaver  ImageSaver
	transcriber Transcriber
	noteSaver   NoteSaver
	audioStore  AudioStore
}

// NewRegistry creates a registry backed by the given collaborators
func NewRegistry(generator ImageGenerator, imageSaver ImageSaver, transcriber Transcriber, noteSaver NoteSaver, audioStore AudioStore) *Registry {
	return &Registry{
		generations: make(map[string]*GenerationFlow),
		voiceNotes:  make(map[string]*VoiceNoteFlow),
		generator:   generator,
		imageSaver:  imageSaver,
		transcriber: transcriber,
		noteSaver:   noteSaver,
		audioStore:  audioStore,
	}
}

// Generation returns the user's current image generation flow, creating one
// if none exists yet
func (r *Registry) Generation(userID string) *GenerationFlow {
	r.mu.Lock()
	defer r.mu.Unlock()
	flow, ok := r.generations[userID]
	if !ok {
		flow = NewGenerationFlow(userID, r.generator, r.imageSaver)
		r.generations[userID] = flow
	}
	return flow
}

// ResetGeneration replaces the user's flow with a fresh idle one
func (r *Registry) ResetGeneration(userID string) *GenerationFlow {
	r.mu.Lock()
	defer r.mu.Unlock()
	flow := NewGenerationFlow(userID, r.generator, r.imageSaver)
	r.generations[userID] = flow
	return flow
}

// VoiceNote returns the user's current voice note flow, creating one if none
// exists yet
func (r *Registry) VoiceNote(userID string) *VoiceNoteFlow {
	r.mu.Lock()
	defer r.mu.Unlock()
	flow, ok := r.voiceNotes[userID]
	if !ok {
		flow = NewVoiceNoteFlow(userID, r.transcriber, r.noteSaver, r.audioStore)
		r.voiceNotes[userID] = flow
	}
	return flow
}

// ResetVoiceNote replaces the user's flow with a fresh idle one
func (r *Registry) ResetVoiceNote(userID string) *VoiceNoteFlow {
	r.mu.Lock()
	defer r.mu.Unlock()
	flow := NewVoiceNoteFlow(userID, r.transcriber, r.noteSaver, r.audioStore)
	r.voiceNotes[userID] = flow
	return flow
}

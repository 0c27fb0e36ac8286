// Package tts speaks through espeak-ng.
package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

static const espeak_VOICE **voices;

static int
tts_init(void)
{
	return espeak_Initialize(AUDIO_OUTPUT_PLAYBACK, 500, NULL, 0);
}

static int
tts_set_language(const char *lang)
{
	espeak_VOICE spec;
	memset(&spec, 0, sizeof(spec));
	spec.languages = lang;
	return (int)espeak_SetVoiceByProperties(&spec);
}

static int
tts_set_voice(const char *name)
{
	return (int)espeak_SetVoiceByName(name);
}

static int
tts_say(const char *text)
{
	return (int)espeak_Synth(text, strlen(text) + 1, 0, POS_CHARACTER, 0,
				 espeakCHARS_AUTO, NULL, NULL);
}

static void tts_sync(void)   { espeak_Synchronize(); }
static void tts_cancel(void) { espeak_Cancel(); }
static void tts_term(void)   { espeak_Terminate(); }

static int
tts_voice_count(void)
{
	int n = 0;
	voices = espeak_ListVoices(NULL);
	while (voices && voices[n])
	{ n++; }
	return n;
}

static const char *tts_voice_name(int i) { return voices[i]->name; }

// languages is a list of (priority byte, name) pairs; take the first name.
static const char *tts_voice_lang(int i) { return voices[i]->languages + 1; }
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"newsvox/internal/speech"
)

// Ducker quiets other audio while an utterance plays.
type Ducker interface {
	Duck(ctx context.Context) error
	Restore(ctx context.Context) error
}

// Espeak is a speech.Synth. espeak-ng is process-global, so use one
// instance.
type Espeak struct {
	mu     sync.Mutex
	voices []speech.Voice
	duck   Ducker
	log    *slog.Logger
}

var _ speech.Synth = (*Espeak)(nil)

func NewEspeak(duck Ducker, log *slog.Logger) (*Espeak, error) {
	if log == nil {
		log = slog.Default()
	}
	if rc := C.tts_init(); rc < 0 {
		return nil, fmt.Errorf("espeak_Initialize failed: %d", int(rc))
	}

	e := &Espeak{duck: duck, log: log}

	n := int(C.tts_voice_count())
	for i := 0; i < n; i++ {
		e.voices = append(e.voices, speech.Voice{
			Name: C.GoString(C.tts_voice_name(C.int(i))),
			Lang: C.GoString(C.tts_voice_lang(C.int(i))),
		})
	}
	log.Debug("espeak ready", "voices", len(e.voices))

	return e, nil
}

func (e *Espeak) Voices() []speech.Voice {
	return e.voices
}

// Speak blocks until the utterance finishes or ctx is cancelled.
func (e *Espeak) Speak(ctx context.Context, u speech.Utterance) error {
	if u.Text == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.selectVoice(u); err != nil {
		e.log.Debug("Voice selection failed, keeping current voice", "err", err)
	}

	if e.duck != nil {
		if err := e.duck.Duck(ctx); err != nil {
			e.log.Warn("Failed to duck other audio", "err", err)
		}
		defer func() {
			if err := e.duck.Restore(context.Background()); err != nil {
				e.log.Warn("Failed to restore other audio", "err", err)
			}
		}()
	}

	ctext := C.CString(u.Text)
	defer C.free(unsafe.Pointer(ctext))

	if rc := C.tts_say(ctext); rc != 0 {
		return fmt.Errorf("espeak_Synth failed: %d", int(rc))
	}

	done := make(chan struct{})
	go func() {
		C.tts_sync()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		C.tts_cancel()
		<-done
		return ctx.Err()
	}
}

func (e *Espeak) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	C.tts_cancel()
	C.tts_term()
}

func (e *Espeak) selectVoice(u speech.Utterance) error {
	if u.Voice != nil && u.Voice.Name != "" {
		name := C.CString(u.Voice.Name)
		defer C.free(unsafe.Pointer(name))
		if rc := C.tts_set_voice(name); rc != 0 {
			return fmt.Errorf("espeak_SetVoiceByName(%s): %d", u.Voice.Name, int(rc))
		}
		return nil
	}

	if u.Lang == "" {
		return errors.New("no voice and no language")
	}
	lang := C.CString(u.Lang)
	defer C.free(unsafe.Pointer(lang))
	if rc := C.tts_set_language(lang); rc != 0 {
		return fmt.Errorf("espeak_SetVoiceByProperties(%s): %d", u.Lang, int(rc))
	}
	return nil
}

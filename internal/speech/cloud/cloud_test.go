package cloud

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"tokmakchat/internal/speech"
	"tokmakchat/internal/speech/system"

	openai "github.com/sashabaranov/go-openai"
)

type fakeAudio struct {
	transcript  string
	err         error
	gotAudio    openai.AudioRequest
	gotSpeech   openai.CreateSpeechRequest
	speechBytes string
}

func (f *fakeAudio) CreateTranscription(_ context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.gotAudio = req
	if f.err != nil {
		return openai.AudioResponse{}, f.err
	}
	return openai.AudioResponse{Text: f.transcript}, nil
}

func (f *fakeAudio) CreateSpeech(_ context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error) {
	f.gotSpeech = req
	if f.err != nil {
		return openai.RawResponse{}, f.err
	}
	return openai.RawResponse{ReadCloser: io.NopCloser(strings.NewReader(f.speechBytes))}, nil
}

type fakeRecorder struct {
	data string
	err  error
}

func (f fakeRecorder) Record(_ context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(path, []byte(f.data), 0o644)
}

type fakePlayer struct {
	played string
}

func (p *fakePlayer) Play(_ context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	p.played = string(data)
	return nil
}

func TestRecognizerTranscribesRecording(t *testing.T) {
	tests := []struct {
		name    string
		rec     fakeRecorder
		audio   *fakeAudio
		want    string
		wantErr bool
	}{
		{name: "transcript", rec: fakeRecorder{data: "wav"}, audio: &fakeAudio{transcript: " Merhaba "}, want: "Merhaba"},
		{name: "empty recording", rec: fakeRecorder{err: system.ErrEmptyRecording}, audio: &fakeAudio{}, want: ""},
		{name: "record failure", rec: fakeRecorder{err: errors.New("no mic")}, audio: &fakeAudio{}, wantErr: true},
		{name: "api failure", rec: fakeRecorder{data: "wav"}, audio: &fakeAudio{err: errors.New("401")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Recognizer{recorder: tt.rec, transcriber: NewTranscriber(tt.audio, "")}
			got, err := r.Recognize(context.Background(), "tr-TR")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("recognize: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			if tt.want != "" {
				if tt.audio.gotAudio.Language != "tr" || tt.audio.gotAudio.Model != openai.Whisper1 {
					t.Fatalf("unexpected request %+v", tt.audio.gotAudio)
				}
			}
		})
	}
}

func TestSynthesizerPlaysDownloadedAudio(t *testing.T) {
	audio := &fakeAudio{speechBytes: "ID3-mp3"}
	p := &fakePlayer{}
	s := NewSynthesizer(audio, p, "", "")

	voices, _ := s.Voices(context.Background())
	v, ok := speech.SelectVoice(voices, "tr-TR", "shimmer")
	if !ok {
		t.Fatalf("expected a voice")
	}
	if err := s.Speak(context.Background(), "Merhaba", &v); err != nil {
		t.Fatalf("speak: %v", err)
	}
	if p.played != "ID3-mp3" {
		t.Fatalf("unexpected played audio %q", p.played)
	}
	if audio.gotSpeech.Voice != openai.VoiceShimmer || audio.gotSpeech.Model != openai.TTSModel1 {
		t.Fatalf("unexpected speech request %+v", audio.gotSpeech)
	}
}

func TestSynthesizerDefaultVoiceAndBlankText(t *testing.T) {
	audio := &fakeAudio{speechBytes: "x"}
	s := NewSynthesizer(audio, &fakePlayer{}, "", "")
	if err := s.Speak(context.Background(), "   ", nil); err != nil {
		t.Fatalf("blank speak: %v", err)
	}
	if audio.gotSpeech.Input != "" {
		t.Fatalf("blank text must not reach the API")
	}
	if err := s.Speak(context.Background(), "Selam", nil); err != nil {
		t.Fatalf("speak: %v", err)
	}
	if audio.gotSpeech.Voice != openai.VoiceNova {
		t.Fatalf("expected default voice nova, got %q", audio.gotSpeech.Voice)
	}
}

func TestNewClientAppendsAPIVersion(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3"))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, Token: "test-key"})
	resp, err := client.CreateSpeech(context.Background(), openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: "Merhaba",
		Voice: openai.VoiceNova,
	})
	if err != nil {
		t.Fatalf("CreateSpeech: %v", err)
	}
	_ = resp.Close()
	if gotPath != "/v1/audio/speech" {
		t.Fatalf("path = %q, want /v1/audio/speech", gotPath)
	}
}

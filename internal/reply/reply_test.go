package reply

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/config"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
)

func history(texts ...string) []models.Message {
	var h []models.Message
	for i, t := range texts {
		sender := models.SenderUser
		if i%2 == 1 {
			sender = models.SenderAI
		}
		h = append(h, models.Message{Sequence: i + 1, Sender: sender, Text: t})
	}
	return h
}

func TestCanned_FromPool(t *testing.T) {
	g := NewCanned(7, 0)
	for i := 0; i < 20; i++ {
		msg, err := g.Generate(context.Background(), history("help"))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if msg.Sender != models.SenderAI {
			t.Errorf("Sender = %q, want ai", msg.Sender)
		}
		found := false
		for _, c := range CannedResponses {
			if c == msg.Text {
				found = true
			}
		}
		if !found {
			t.Errorf("Text %q not in canned pool", msg.Text)
		}
	}
}

func TestCanned_SeedReproducible(t *testing.T) {
	a, b := NewCanned(42, 0), NewCanned(42, 0)
	for i := 0; i < 10; i++ {
		ma, _ := a.Generate(context.Background(), nil)
		mb, _ := b.Generate(context.Background(), nil)
		if ma.Text != mb.Text {
			t.Fatalf("step %d: %q != %q", i, ma.Text, mb.Text)
		}
	}
}

func TestCanned_DelayHonoursContext(t *testing.T) {
	g := NewCanned(1, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Generate(ctx, history("x"))
	if !errors.Is(err, ErrGenerator) {
		t.Errorf("error = %v, want ErrGenerator", err)
	}
}

func TestEcho(t *testing.T) {
	msg, err := Echo{}.Generate(context.Background(), history("first", "ok", "  second  "))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if msg.Text != "You said: second" {
		t.Errorf("Text = %q", msg.Text)
	}
}

func TestEcho_NoUserMessage(t *testing.T) {
	_, err := Echo{}.Generate(context.Background(), []models.Message{{Sender: models.SenderAI, Text: "hi"}})
	if !errors.Is(err, ErrGenerator) {
		t.Errorf("error = %v, want ErrGenerator", err)
	}
}

func TestRegistry_BuiltIns(t *testing.T) {
	r := NewRegistry()
	if got := strings.Join(r.Kinds(), ","); got != "canned,echo" {
		t.Errorf("Kinds() = %q", got)
	}
	g, err := r.New(config.ReplyConfig{Kind: "ECHO"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := g.(Echo); !ok {
		t.Errorf("generator = %T, want Echo", g)
	}
	g, err = r.New(config.ReplyConfig{Kind: "canned", Seed: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := g.(*Canned); !ok {
		t.Errorf("generator = %T, want *Canned", g)
	}
}

func TestRegistry_Unknown(t *testing.T) {
	_, err := NewRegistry().New(config.ReplyConfig{Kind: "gpt"})
	if err == nil || err.Error() != "reply: unknown generator kind: gpt (registered: canned, echo)" {
		t.Errorf("error = %v", err)
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register(" Fixed ", func(config.ReplyConfig) (Generator, error) { return Echo{}, nil })
	if _, err := r.New(config.ReplyConfig{Kind: "fixed"}); err != nil {
		t.Errorf("New(fixed): %v", err)
	}
}

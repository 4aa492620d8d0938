package msgcache

import (
	"fmt"
	"testing"

	"github.com/haukened/rr-authd/internal/dns/domain"
)

func benchMessages(n int) []domain.Message {
	msgs := make([]domain.Message, n)
	for i := range msgs {
		msgs[i] = testMessage(fmt.Sprintf("host%d.example.com", i))
	}
	return msgs
}

func BenchmarkCache_Get_Hit(b *testing.B) {
	c, err := New(1024)
	if err != nil {
		b.Fatal(err)
	}
	msgs := benchMessages(1024)
	keys := make([]string, len(msgs))
	for i, msg := range msgs {
		keys[i] = msg.Questions[0].Key()
		c.Put(keys[i], msg)
		c.Put(keys[i], msg)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Get(keys[i%len(keys)])
	}
}

func BenchmarkCache_Put(b *testing.B) {
	c, err := New(1024)
	if err != nil {
		b.Fatal(err)
	}
	msgs := benchMessages(4096)
	keys := make([]string, len(msgs))
	for i, msg := range msgs {
		keys[i] = msg.Questions[0].Key()
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		idx := i % len(msgs)
		c.Put(keys[idx], msgs[idx])
	}
}

package depdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_BasicRule(t *testing.T) {
	in := []byte("out.o: a.c \\\n  /usr/inc/b.h c.h d.txt")
	got := tokenize(in)
	assert.Equal(t, []string{"out.o:", "a.c", "/usr/inc/b.h", "c.h", "d.txt"}, got)
}

func TestTokenize_EscapedSpace(t *testing.T) {
	in := []byte(`out.o: inc/with\ space.h`)
	got := tokenize(in)
	assert.Equal(t, []string{"out.o:", "inc/with space.h"}, got)
}

func TestTokenize_FiltersByExtension(t *testing.T) {
	db := &DB{exts: map[string]struct{}{".h": {}}}
	tokens := tokenize([]byte("out.o: a.c \\\n  /usr/inc/b.h c.h d.txt"))

	var headers []string
	for _, tok := range tokens {
		if _, ok := db.exts[filepath.Ext(tok)]; ok {
			headers = append(headers, tok)
		}
	}
	assert.Equal(t, []string{"/usr/inc/b.h", "c.h"}, headers)
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, tokenize(nil))
	assert.Empty(t, tokenize([]byte("   \\\n  ")))
}

package sensitive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutomatonFindFirst(t *testing.T) {
	a := NewAutomaton([]string{"he", "she", "hers", "  ", ""})
	assert.Equal(t, 3, a.Size())

	word, ok := a.FindFirst("ushers")
	assert.True(t, ok)
	assert.Equal(t, "she", word)

	_, ok = a.FindFirst("hi there")
	assert.True(t, ok)

	_, ok = a.FindFirst("xyz")
	assert.False(t, ok)
}

func TestAutomatonCaseInsensitive(t *testing.T) {
	a := NewAutomaton([]string{" BadWord "})

	word, ok := a.FindFirst("this has a BADWORD inside")
	assert.True(t, ok)
	assert.Equal(t, "BadWord", word)

	_, ok = a.FindFirst("bad word")
	assert.False(t, ok)
}

func TestAutomatonChinese(t *testing.T) {
	a := NewAutomaton([]string{"赌博", "博彩网站"})

	word, ok := a.FindFirst("这里有一个博彩网站链接")
	assert.True(t, ok)
	assert.Equal(t, "博彩网站", word)

	_, ok = a.FindFirst("正常的内容")
	assert.False(t, ok)
}

func TestAutomatonEmpty(t *testing.T) {
	a := NewAutomaton(nil)
	assert.Equal(t, 0, a.Size())

	_, ok := a.FindFirst("anything")
	assert.False(t, ok)
}

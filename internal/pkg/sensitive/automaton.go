package sensitive

import "strings"

// acNode 自动机节点
type acNode struct {
	children map[rune]int
	fail     int // 失配指针
	word     int // 以本节点结尾的词下标，-1 表示无
	output   int // 沿失配链最近的可输出节点，-1 表示无
}

// Automaton Aho–Corasick 多模式匹配自动机
// 词典与待扫描文本统一转为小写，命中时返回词条的原始写法
type Automaton struct {
	nodes []acNode
	words []string
}

// NewAutomaton 构建自动机，空白词条被忽略，重复词条保留第一次出现的写法
func NewAutomaton(words []string) *Automaton {
	a := &Automaton{nodes: []acNode{newNode()}}

	for _, w := range words {
		original := strings.TrimSpace(w)
		if original == "" {
			continue
		}
		a.insert(strings.ToLower(original), original)
	}
	a.build()
	return a
}

func newNode() acNode {
	return acNode{children: make(map[rune]int), word: -1, output: -1}
}

// Size 有效词条数量
func (a *Automaton) Size() int {
	return len(a.words)
}

func (a *Automaton) insert(key, original string) {
	cur := 0
	for _, r := range key {
		next, ok := a.nodes[cur].children[r]
		if !ok {
			a.nodes = append(a.nodes, newNode())
			next = len(a.nodes) - 1
			a.nodes[cur].children[r] = next
		}
		cur = next
	}
	if a.nodes[cur].word == -1 {
		a.words = append(a.words, original)
		a.nodes[cur].word = len(a.words) - 1
	}
}

// build 广度优先计算失配指针与输出链
func (a *Automaton) build() {
	queue := make([]int, 0, len(a.nodes))
	for _, child := range a.nodes[0].children {
		a.nodes[child].fail = 0
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for r, child := range a.nodes[cur].children {
			f := a.nodes[cur].fail
			for f != 0 {
				if _, ok := a.nodes[f].children[r]; ok {
					break
				}
				f = a.nodes[f].fail
			}
			if next, ok := a.nodes[f].children[r]; ok && next != child {
				a.nodes[child].fail = next
			} else {
				a.nodes[child].fail = 0
			}

			fail := a.nodes[child].fail
			if a.nodes[fail].word != -1 {
				a.nodes[child].output = fail
			} else {
				a.nodes[child].output = a.nodes[fail].output
			}
			queue = append(queue, child)
		}
	}
}

// FindFirst 返回文本中最早结束的命中词(原始写法)
func (a *Automaton) FindFirst(text string) (string, bool) {
	if a == nil || len(a.words) == 0 || text == "" {
		return "", false
	}

	cur := 0
	for _, r := range strings.ToLower(text) {
		for cur != 0 {
			if _, ok := a.nodes[cur].children[r]; ok {
				break
			}
			cur = a.nodes[cur].fail
		}
		if next, ok := a.nodes[cur].children[r]; ok {
			cur = next
		}

		if idx := a.nodes[cur].word; idx != -1 {
			return a.words[idx], true
		}
		if out := a.nodes[cur].output; out != -1 {
			return a.words[a.nodes[out].word], true
		}
	}
	return "", false
}

package engine

// Screen - экран оболочки. Обновляется только верхний экран стека.
type Screen string

const (
	ScreenTitle     Screen = "title"
	ScreenDialogue  Screen = "dialogue"
	ScreenOverworld Screen = "overworld"
	ScreenTraining  Screen = "training"
	ScreenCombat    Screen = "combat"
	ScreenInventory Screen = "inventory"
)

// screenStack - стек экранов. Корень никогда не снимается.
type screenStack []Screen

func (s *screenStack) push(sc Screen) {
	*s = append(*s, sc)
}

func (s *screenStack) pop() {
	if len(*s) > 1 {
		*s = (*s)[:len(*s)-1]
	}
}

func (s screenStack) top() Screen {
	if len(s) == 0 {
		return ScreenTitle
	}
	return s[len(s)-1]
}

// reset оставляет в стеке один экран
func (s *screenStack) reset(root Screen) {
	*s = append((*s)[:0], root)
}

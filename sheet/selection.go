package sheet

// Selection 표시할 공종 집합. nil 맵은 "전부 선택"을 뜻합니다.
type Selection struct {
	selected map[string]bool
}

// SelectAll 모든 공종을 선택합니다
func SelectAll() *Selection {
	return &Selection{}
}

// SelectOnly 주어진 공종만 선택합니다. 목록이 비어 있으면 아무것도 선택하지 않습니다.
func SelectOnly(names []string) *Selection {
	s := &Selection{selected: make(map[string]bool, len(names))}
	for _, n := range names {
		s.selected[n] = true
	}
	return s
}

// All 전부 선택 상태인지 반환합니다
func (s *Selection) All(groups []Group) bool {
	for _, g := range groups {
		if !s.Has(g.Name) {
			return false
		}
	}
	return true
}

// Clone 복사본을 만듭니다
func (s *Selection) Clone() *Selection {
	if s == nil || s.selected == nil {
		return SelectAll()
	}
	c := &Selection{selected: make(map[string]bool, len(s.selected))}
	for k, v := range s.selected {
		c.selected[k] = v
	}
	return c
}

// Has 공종이 선택되어 있는지 반환합니다
func (s *Selection) Has(name string) bool {
	if s == nil || s.selected == nil {
		return true
	}
	return s.selected[name]
}

// Toggle 공종의 선택 상태를 뒤집습니다. groups는 "전부 선택" 상태를 풀 때 필요합니다.
func (s *Selection) Toggle(name string, groups []Group) {
	if s.selected == nil {
		s.selected = make(map[string]bool, len(groups))
		for _, g := range groups {
			s.selected[g.Name] = true
		}
	}
	if s.selected[name] {
		delete(s.selected, name)
	} else {
		s.selected[name] = true
	}
}

// Names 선택된 공종 이름을 groups 순서대로 반환합니다
func (s *Selection) Names(groups []Group) []string {
	var names []string
	for _, g := range groups {
		if s.Has(g.Name) {
			names = append(names, g.Name)
		}
	}
	return names
}

// Visible 선택되어 있고 항목이 있는 그룹만 남기고 보이는 순서대로 번호를 붙입니다
func (s *Selection) Visible(groups []Group) []Group {
	var out []Group
	for _, g := range groups {
		if !s.Has(g.Name) || len(g.Items) == 0 {
			continue
		}
		g.Heading = Numeral(len(out)) + "、" + g.Name
		out = append(out, g)
	}
	return out
}

// Total 그룹 합계의 총합
func Total(groups []Group) float64 {
	var sum float64
	for _, g := range groups {
		sum += g.Total
	}
	return sum
}

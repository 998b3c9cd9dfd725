package model

import "sort"

// BuildMenuTree 按 parent_id 组装菜单树，从虚拟根 0 开始，同级按 order、id 升序
// 父菜单不在列表中的节点被丢弃
func BuildMenuTree(menus []*Menu) []*MenuNode {
	sorted := make([]*Menu, len(menus))
	copy(sorted, menus)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})

	children := make(map[uint][]*Menu)
	for _, m := range sorted {
		children[m.ParentID] = append(children[m.ParentID], m)
	}

	var build func(parentID uint, depth int) []*MenuNode
	build = func(parentID uint, depth int) []*MenuNode {
		nodes := make([]*MenuNode, 0, len(children[parentID]))
		if depth > len(sorted) {
			return nodes
		}
		for _, m := range children[parentID] {
			if m.ID == parentID {
				continue
			}
			nodes = append(nodes, &MenuNode{Menu: m, Children: build(m.ID, depth+1)})
		}
		return nodes
	}
	return build(0, 0)
}

// BuildDeptTree 按 parent_id 组装部门森林，从虚拟根 0 开始，同级按 order、id 升序
func BuildDeptTree(depts []*Dept) []*DeptNode {
	sorted := make([]*Dept, len(depts))
	copy(sorted, depts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})

	children := make(map[uint][]*Dept)
	for _, d := range sorted {
		children[d.ParentID] = append(children[d.ParentID], d)
	}

	var build func(parentID uint, depth int) []*DeptNode
	build = func(parentID uint, depth int) []*DeptNode {
		nodes := make([]*DeptNode, 0, len(children[parentID]))
		if depth > len(sorted) {
			return nodes
		}
		for _, d := range children[parentID] {
			if d.ID == parentID {
				continue
			}
			nodes = append(nodes, &DeptNode{
				ID:       d.ID,
				Name:     d.Name,
				Desc:     d.Desc,
				Order:    d.Order,
				ParentID: d.ParentID,
				Children: build(d.ID, depth+1),
			})
		}
		return nodes
	}
	return build(0, 0)
}

package category

import (
	"context"

	"open-producten/internal/domain"
	"open-producten/internal/mptree"
	"open-producten/internal/repository/category"
)

// slot is one child of the destination parent in its final order.
type slot struct {
	path    string
	current int // segment value, 0 when the node comes from another parent
	target  string
}

// move relocates node and its subtree. published is the flag the node will
// carry after the operation.
//
// The new sibling list is renumbered left to right: a slot keeps its segment
// when it still sorts after its left neighbour and is bumped otherwise. Every
// changed subtree is first parked under a temporary prefix and then written
// to its final path, so no two rows share a path at any point.
func move(ctx context.Context, tx category.Repository, node, target *domain.Category, pos Position, published bool) error {
	if pos.child() {
		if mptree.InSubtree(target.Path, node.Path) {
			return domain.ErrMoveToDescendant
		}
	} else {
		if mptree.IsDescendant(target.Path, node.Path) {
			return domain.ErrMoveToDescendant
		}
		if target.ID == node.ID && (pos == Left || pos == Right) {
			return nil
		}
	}

	parentPath := target.Path
	if !pos.child() {
		parentPath = mptree.Parent(target.Path)
	}
	if parentPath != "" && published {
		parent, err := tx.GetByPath(ctx, parentPath)
		if err != nil {
			return err
		}
		if !parent.Published {
			return domain.ErrCannotNestPublishedUnderUnpublished
		}
	}

	if err := tx.LockSubtree(ctx, node.Path); err != nil {
		return err
	}
	if err := tx.LockSubtree(ctx, parentPath); err != nil {
		return err
	}

	siblings, err := tx.Children(ctx, parentPath)
	if err != nil {
		return err
	}
	order := make([]slot, 0, len(siblings)+1)
	targetIdx := -1
	for _, c := range siblings {
		if c.ID == node.ID {
			continue
		}
		if c.ID == target.ID {
			targetIdx = len(order)
		}
		order = append(order, slot{path: c.Path, current: mptree.SegmentValue(mptree.Last(c.Path))})
	}

	var at int
	switch pos {
	case FirstChild, FirstSibling:
		at = 0
	case LastChild, LastSibling:
		at = len(order)
	case Left, Right:
		if targetIdx < 0 {
			return domain.ErrInvalidPosition
		}
		at = targetIdx
		if pos == Right {
			at++
		}
	default:
		return domain.ErrInvalidPosition
	}

	moving := slot{path: node.Path}
	if mptree.Parent(node.Path) == parentPath {
		moving.current = mptree.SegmentValue(mptree.Last(node.Path))
	}
	order = append(order, slot{})
	copy(order[at+1:], order[at:])
	order[at] = moving

	prev := 0
	for i := range order {
		seg := order[i].current
		if seg <= prev {
			seg = prev + 1
		}
		p, err := mptree.Child(parentPath, seg)
		if err != nil {
			return err
		}
		order[i].target = p
		prev = seg
	}

	// the moving node is parked first: it may live inside a sibling that
	// is about to be shifted
	var changed []slot
	if order[at].target != order[at].path {
		changed = append(changed, order[at])
	}
	for i, sl := range order {
		if i != at && sl.target != sl.path {
			changed = append(changed, sl)
		}
	}

	temps := make([]string, len(changed))
	for i, sl := range changed {
		temps[i] = mptree.TempPrefix(i + 1)
		if err := tx.Relocate(ctx, sl.path, temps[i]); err != nil {
			return err
		}
	}
	for i, sl := range changed {
		if err := tx.Relocate(ctx, temps[i], sl.target); err != nil {
			return err
		}
	}
	return nil
}

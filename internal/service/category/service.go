package category

import (
	"context"
	"fmt"
	"strings"

	"open-producten/internal/domain"
	"open-producten/internal/metrics"
	"open-producten/internal/mptree"
	"open-producten/internal/repository/category"
)

const maxNameLen = 100

// Position places a moved node relative to its target.
type Position string

const (
	FirstChild   Position = "first-child"
	LastChild    Position = "last-child"
	FirstSibling Position = "first-sibling"
	LastSibling  Position = "last-sibling"
	Left         Position = "left"
	Right        Position = "right"
)

func ParsePosition(s string) (Position, error) {
	switch p := Position(s); p {
	case FirstChild, LastChild, FirstSibling, LastSibling, Left, Right:
		return p, nil
	}
	return "", domain.ErrInvalidPosition.Withf("invalid move position %q", s)
}

func (p Position) child() bool {
	return p == FirstChild || p == LastChild
}

// CreateInput describes a new category. An empty ParentID creates a root.
type CreateInput struct {
	domain.CategoryAttrs
	ParentID       string
	ProductTypeIDs []string
}

// UpdateInput is a partial update; nil fields keep their current value.
// A non-nil ParentID reparents the node, "" meaning the root level.
type UpdateInput struct {
	Name           *string
	Description    *string
	Published      *bool
	ParentID       *string
	ProductTypeIDs []string
}

// PublishChange is one row of a batch publish edit.
type PublishChange struct {
	ID        string
	Published bool
}

type Service struct {
	repo    category.Repository
	metrics *metrics.Metrics
}

func New(repo category.Repository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ids, err := s.repo.ProductTypeIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load product types: %w", err)
	}
	c.ProductTypeIDs = ids
	return c, nil
}

// Parent returns nil for roots.
func (s *Service) Parent(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Depth == 1 {
		return nil, nil
	}
	return s.repo.GetByPath(ctx, mptree.Parent(c.Path))
}

func (s *Service) Children(ctx context.Context, id string) ([]domain.Category, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.Children(ctx, c.Path)
}

func (s *Service) Roots(ctx context.Context) ([]domain.Category, error) {
	return s.repo.Children(ctx, "")
}

// Ancestors lists the ancestors of id from the root down.
func (s *Service) Ancestors(ctx context.Context, id string) ([]domain.Category, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.ByPaths(ctx, mptree.Ancestors(c.Path))
}

// Descendants lists the subtree below id in pre-order.
func (s *Service) Descendants(ctx context.Context, id string) ([]domain.Category, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sub, err := s.repo.Subtree(ctx, c.Path)
	if err != nil {
		return nil, err
	}
	if len(sub) > 0 && sub[0].ID == c.ID {
		sub = sub[1:]
	}
	return sub, nil
}

func (s *Service) AddRoot(ctx context.Context, attrs domain.CategoryAttrs) (*domain.Category, error) {
	return s.Create(ctx, CreateInput{CategoryAttrs: attrs})
}

func (s *Service) AddChild(ctx context.Context, parentID string, attrs domain.CategoryAttrs) (*domain.Category, error) {
	if parentID == "" {
		return nil, domain.ErrNotFound
	}
	return s.Create(ctx, CreateInput{CategoryAttrs: attrs, ParentID: parentID})
}

// Create inserts a category under ParentID (or as the last root) and links
// its product types in the same transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Category, error) {
	if err := validateAttrs(in.CategoryAttrs); err != nil {
		return nil, s.fail("create", err)
	}
	if err := checkProductTypeIDs(in.ProductTypeIDs); err != nil {
		return nil, s.fail("create", err)
	}

	var out *domain.Category
	err := s.repo.WithinTx(ctx, func(tx category.Repository) error {
		if err := tx.LockTree(ctx); err != nil {
			return err
		}
		parentPath := ""
		if in.ParentID != "" {
			parent, err := tx.Get(ctx, in.ParentID)
			if err != nil {
				return fmt.Errorf("parent: %w", err)
			}
			if in.Published && !parent.Published {
				return domain.ErrParentMustBePublishedFirst
			}
			parentPath = parent.Path
		}

		path, err := nextChildPath(ctx, tx, parentPath)
		if err != nil {
			return err
		}
		created, err := tx.Insert(ctx, domain.Category{
			Path:        path,
			Depth:       mptree.Depth(path),
			Name:        in.Name,
			Description: in.Description,
			Published:   in.Published,
		})
		if err != nil {
			return err
		}
		if len(in.ProductTypeIDs) > 0 {
			if err := tx.SetProductTypes(ctx, created.ID, in.ProductTypeIDs); err != nil {
				return err
			}
			created.ProductTypeIDs = in.ProductTypeIDs
		}
		out = created
		return nil
	})
	if err != nil {
		return nil, s.fail("create", err)
	}
	s.metrics.Mutation("create")
	return out, nil
}

// Move repositions id and its subtree relative to targetID.
func (s *Service) Move(ctx context.Context, id, targetID string, pos Position) error {
	if _, err := ParsePosition(string(pos)); err != nil {
		return s.fail("move", err)
	}
	err := s.repo.WithinTx(ctx, func(tx category.Repository) error {
		if err := tx.LockTree(ctx); err != nil {
			return err
		}
		node, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		target, err := tx.Get(ctx, targetID)
		if err != nil {
			return fmt.Errorf("target: %w", err)
		}
		return move(ctx, tx, node, target, pos, node.Published)
	})
	if err != nil {
		return s.fail("move", err)
	}
	s.metrics.Mutation("move")
	return nil
}

func (s *Service) SetPublished(ctx context.Context, id string, published bool) (*domain.Category, error) {
	var out *domain.Category
	err := s.repo.WithinTx(ctx, func(tx category.Repository) error {
		if err := tx.LockTree(ctx); err != nil {
			return err
		}
		node, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := checkPublished(ctx, tx, node.Path, published); err != nil {
			return err
		}
		node.Published = published
		out, err = tx.Update(ctx, *node)
		return err
	})
	if err != nil {
		return nil, s.fail("publish", err)
	}
	s.metrics.Mutation("publish")
	return out, nil
}

// BatchSetPublished applies several publish flags at once. Every change is
// checked against the final state, that is the batch layered over the
// current tree, and the batch is written only if all of them hold.
func (s *Service) BatchSetPublished(ctx context.Context, changes []PublishChange) error {
	err := s.repo.WithinTx(ctx, func(tx category.Repository) error {
		if err := tx.LockTree(ctx); err != nil {
			return err
		}
		all, err := tx.List(ctx)
		if err != nil {
			return err
		}
		byID := make(map[string]domain.Category, len(all))
		byPath := make(map[string]domain.Category, len(all))
		children := make(map[string][]string, len(all))
		for _, c := range all {
			byID[c.ID] = c
			byPath[c.Path] = c
			if c.Depth > 1 {
				p := mptree.Parent(c.Path)
				children[p] = append(children[p], c.ID)
			}
		}

		errs := &domain.BatchError{Field: "published"}
		proposed := make(map[string]bool, len(changes))
		for i, ch := range changes {
			if _, ok := byID[ch.ID]; !ok {
				errs.Add(i, domain.ErrDoesNotExist.Withf("Category id %s at index %d does not exist", ch.ID, i))
				continue
			}
			if _, dup := proposed[ch.ID]; dup {
				errs.Add(i, domain.ErrDuplicateID.Withf("Duplicate category id: %s at index %d", ch.ID, i))
				continue
			}
			proposed[ch.ID] = ch.Published
		}
		if !errs.Empty() {
			return errs
		}

		final := func(c domain.Category) bool {
			if p, ok := proposed[c.ID]; ok {
				return p
			}
			return c.Published
		}
		for i, ch := range changes {
			node := byID[ch.ID]
			if ch.Published {
				if node.Depth > 1 && !final(byPath[mptree.Parent(node.Path)]) {
					errs.Add(i, domain.ErrParentMustBePublishedFirst)
				}
				continue
			}
			for _, childID := range children[node.Path] {
				if final(byID[childID]) {
					errs.Add(i, domain.ErrCannotUnpublishWithPublishedDescendants)
					break
				}
			}
		}
		if err := errs.ErrOrNil(); err != nil {
			return err
		}
		return tx.SetPublished(ctx, proposed)
	})
	if err != nil {
		return s.fail("batch_publish", err)
	}
	s.metrics.Mutation("batch_publish")
	return nil
}

// Update edits a category. A parent change moves the node first, to the
// last root slot or as last child of the new parent; attributes and the
// product type links follow in the same transaction.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Category, error) {
	if err := checkProductTypeIDs(in.ProductTypeIDs); err != nil {
		return nil, s.fail("update", err)
	}

	var out *domain.Category
	err := s.repo.WithinTx(ctx, func(tx category.Repository) error {
		if err := tx.LockTree(ctx); err != nil {
			return err
		}
		node, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}

		attrs := domain.CategoryAttrs{Name: node.Name, Description: node.Description, Published: node.Published}
		if in.Name != nil {
			attrs.Name = *in.Name
		}
		if in.Description != nil {
			attrs.Description = *in.Description
		}
		if in.Published != nil {
			attrs.Published = *in.Published
		}
		if err := validateAttrs(attrs); err != nil {
			return err
		}

		if in.ParentID != nil {
			if err := reparent(ctx, tx, node, *in.ParentID, attrs.Published); err != nil {
				return err
			}
			if node, err = tx.Get(ctx, id); err != nil {
				return err
			}
		}

		if err := checkPublished(ctx, tx, node.Path, attrs.Published); err != nil {
			return err
		}
		node.Name, node.Description, node.Published = attrs.Name, attrs.Description, attrs.Published
		if out, err = tx.Update(ctx, *node); err != nil {
			return err
		}

		if in.ProductTypeIDs != nil {
			if err := tx.SetProductTypes(ctx, id, in.ProductTypeIDs); err != nil {
				return err
			}
		}
		out.ProductTypeIDs, err = tx.ProductTypeIDs(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.fail("update", err)
	}
	s.metrics.Mutation("update")
	return out, nil
}

// Delete removes the category with its whole subtree.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.WithinTx(ctx, func(tx category.Repository) error {
		if err := tx.LockTree(ctx); err != nil {
			return err
		}
		node, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		return tx.DeleteSubtree(ctx, node.Path)
	})
	if err != nil {
		return s.fail("delete", err)
	}
	s.metrics.Mutation("delete")
	return nil
}

func (s *Service) fail(op string, err error) error {
	s.metrics.ObserveError("category."+op, err)
	return err
}

func reparent(ctx context.Context, tx category.Repository, node *domain.Category, parentID string, published bool) error {
	if parentID == "" {
		if node.Depth == 1 {
			return nil
		}
		roots, err := tx.Children(ctx, "")
		if err != nil {
			return err
		}
		return move(ctx, tx, node, &roots[len(roots)-1], LastSibling, published)
	}

	parent, err := tx.Get(ctx, parentID)
	if err != nil {
		return domain.OnField("parent", domain.ErrDoesNotExist.Withf("Category id %s does not exist", parentID))
	}
	if parent.Path == mptree.Parent(node.Path) {
		return nil
	}
	return move(ctx, tx, node, parent, LastChild, published)
}

// checkPublished verifies the publish invariant for the node at path taking
// the given flag.
func checkPublished(ctx context.Context, tx category.Repository, path string, published bool) error {
	if published {
		if mptree.Depth(path) == 1 {
			return nil
		}
		parent, err := tx.GetByPath(ctx, mptree.Parent(path))
		if err != nil {
			return err
		}
		if !parent.Published {
			return domain.ErrParentMustBePublishedFirst
		}
		return nil
	}
	sub, err := tx.Subtree(ctx, path)
	if err != nil {
		return err
	}
	for _, c := range sub {
		if c.Path != path && c.Published {
			return domain.ErrCannotUnpublishWithPublishedDescendants
		}
	}
	return nil
}

func nextChildPath(ctx context.Context, tx category.Repository, parentPath string) (string, error) {
	children, err := tx.Children(ctx, parentPath)
	if err != nil {
		return "", err
	}
	last := ""
	if len(children) > 0 {
		last = children[len(children)-1].Path
	}
	return mptree.Next(parentPath, last)
}

func validateAttrs(a domain.CategoryAttrs) error {
	name := strings.TrimSpace(a.Name)
	switch {
	case name == "":
		return domain.OnField("name", domain.Invalid("This field may not be blank."))
	case len([]rune(name)) > maxNameLen:
		return domain.OnField("name", domain.Invalid("Ensure this field has no more than %d characters.", maxNameLen))
	}
	return nil
}

func checkProductTypeIDs(ids []string) error {
	errs := &domain.BatchError{Field: "productTypeIds"}
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if _, dup := seen[id]; dup {
			errs.Add(i, domain.ErrDuplicateID.Withf("Duplicate ProductType id: %s at index %d", id, i))
			continue
		}
		seen[id] = struct{}{}
	}
	return errs.ErrOrNil()
}

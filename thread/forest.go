// Package thread turns the flat comment set of an article into a tree of
// replies and exposes the comment and like writes that feed it.
package thread

import "github.com/sabelo-news/api-go/models"

// Viewer is the signed-in account looking at a thread. A nil *Viewer is a
// signed-out visitor.
type Viewer struct {
	AccountID string
	Name      string
}

func (v *Viewer) displayName() string {
	if v.Name == "" {
		return models.AnonymousName
	}
	return v.Name
}

// Node is a comment ready for display: its replies plus the like state as
// seen by the viewer the forest was built for.
type Node struct {
	models.Comment
	LikeCount     int     `json:"likeCount"`
	LikedByViewer bool    `json:"likedByViewer"`
	Replies       []*Node `json:"replies"`
}

// BuildForest groups comments into root nodes with nested replies.
//
// Roots and replies keep the order of the input. A comment whose parent is
// not in the input is an orphan and is left out. BuildForest does no I/O and
// does not modify comments.
func BuildForest(comments []models.Comment, viewer *Viewer) []*Node {
	forest := make([]*Node, 0, len(comments))
	if len(comments) == 0 {
		return forest
	}

	nodes := make([]*Node, len(comments))
	index := make(map[string]*Node, len(comments))
	for i, c := range comments {
		n := &Node{
			Comment:   c,
			LikeCount: len(c.Likes),
			Replies:   []*Node{},
		}
		if viewer != nil {
			n.LikedByViewer = c.LikedBy(viewer.AccountID)
		}
		nodes[i] = n
		index[c.ID] = n
	}

	for _, n := range nodes {
		if n.IsRoot() {
			forest = append(forest, n)
			continue
		}
		if parent, ok := index[*n.ParentID]; ok {
			parent.Replies = append(parent.Replies, n)
		}
	}
	return forest
}

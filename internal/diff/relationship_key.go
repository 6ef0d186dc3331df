package diff

import (
	"fmt"
	"strings"

	"github.com/entitydiff/entitydiff/internal/casefold"
	"github.com/entitydiff/entitydiff/internal/model"
	"github.com/entitydiff/entitydiff/internal/utils"
)

// RelationshipKey is the kind-agnostic identity of a relationship: owning table and column set,
// referenced table and column set, all folded by a case normalizer and order-insensitive.
// Association kind is not part of the key, so a MANY_TO_ONE reclassified as ONE_TO_ONE with the
// same column shape is the same relationship.
type RelationshipKey struct {
	Table             string
	Columns           string
	ReferencedTable   string
	ReferencedColumns string
}

// NewRelationshipKey derives the key of r under normalizer n
func NewRelationshipKey(r *model.RelationshipModel, n casefold.Normalizer) RelationshipKey {
	return RelationshipKey{
		Table:             n.Normalize(r.TableName),
		Columns:           joinColumnSet(n, r.Columns),
		ReferencedTable:   n.Normalize(r.ReferencedTable),
		ReferencedColumns: joinColumnSet(n, r.ReferencedColumns),
	}
}

func joinColumnSet(n casefold.Normalizer, cols []string) string {
	return strings.Join(utils.SortedCopy(casefold.NormalizeAll(n, cols)), ",")
}

func (k RelationshipKey) String() string {
	return fmt.Sprintf("%s(%s)->%s(%s)", k.Table, k.Columns, k.ReferencedTable, k.ReferencedColumns)
}

// less orders keys by their rendered form
func (k RelationshipKey) less(other RelationshipKey) bool {
	return k.String() < other.String()
}

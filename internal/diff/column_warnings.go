package diff

import (
	"fmt"

	"github.com/entitydiff/entitydiff/internal/model"
	"github.com/entitydiff/entitydiff/internal/utils"
)

// warning is one entity warning with its risk level
type warning struct {
	text      string
	dangerous bool
}

func info(format string, args ...any) warning {
	return warning{text: fmt.Sprintf(format, args...)}
}

func danger(format string, args ...any) warning {
	return warning{text: fmt.Sprintf(format, args...), dangerous: true}
}

// columnWarnings evaluates the risk of a matched column pair. It runs for every strategy and
// independently of whether the attribute comparison produced a diff.
func columnWarnings(name string, old, new *model.ColumnModel) []warning {
	var warnings []warning

	if old.Nullable && !new.Nullable {
		warnings = append(warnings, danger(
			"Column %s changed from nullable to NOT NULL; existing NULL values may cause data loss or migration failure", name))
	}

	switch classifyTypeChange(old.JavaType, new.JavaType) {
	case conversionSafe:
		warnings = append(warnings, info("Safe type conversion in column %s: %s -> %s", name, old.JavaType, new.JavaType))
	case conversionDangerous:
		warnings = append(warnings, danger("Dangerous type conversion in column %s: %s -> %s may lose data", name, old.JavaType, new.JavaType))
	case conversionNonNumeric:
		warnings = append(warnings, danger("Type change in column %s: %s -> %s requires data conversion", name, old.JavaType, new.JavaType))
	}

	warnings = appendReduction(warnings, "length", name, old.Length, new.Length)
	warnings = appendReduction(warnings, "precision", name, old.Precision, new.Precision)
	warnings = appendReduction(warnings, "scale", name, old.Scale, new.Scale)

	warnings = append(warnings, enumWarnings(name, old, new)...)

	if old.PrimaryKey != new.PrimaryKey {
		warnings = append(warnings, danger("Primary key flag changed in column %s from %t to %t; primary key constraint must be recreated",
			name, old.PrimaryKey, new.PrimaryKey))
	}
	if old.GenerationStrategy != new.GenerationStrategy {
		warnings = append(warnings, info("Generation strategy changed in column %s from %s to %s",
			name, renderEnum(old.GenerationStrategy), renderEnum(new.GenerationStrategy)))
	}
	if old.Lob != new.Lob {
		warnings = append(warnings, danger("LOB flag changed in column %s from %t to %t; column storage type changes",
			name, old.Lob, new.Lob))
	}
	if old.FetchType != new.FetchType {
		warnings = append(warnings, info("Fetch strategy changed in column %s from %s to %s",
			name, renderEnum(old.FetchType), renderEnum(new.FetchType)))
	}
	if !equalPtr(old.ConversionClass, new.ConversionClass) {
		warnings = append(warnings, danger("Converter changed in column %s from %s to %s; stored values may need migration",
			name, renderPtr(old.ConversionClass), renderPtr(new.ConversionClass)))
	}

	return warnings
}

// appendReduction warns when a positive size attribute shrinks. Zero means "not declared".
func appendReduction(warnings []warning, attr, name string, old, new int) []warning {
	if old > 0 && new > 0 && new < old {
		return append(warnings, danger("Dangerous %s reduction in column %s: %d -> %d", attr, name, old, new))
	}
	return warnings
}

// enumWarnings covers constant removal and addition, and for ordinal mappings any change to the
// stored ordinal of a surviving constant. A reorder of the surviving constants is reported as an
// order change; an insertion or removal that keeps their order but moves their positions is
// reported as an ordinal shift.
func enumWarnings(name string, old, new *model.ColumnModel) []warning {
	var warnings []warning

	if removed := utils.SetDifference(old.EnumValues, new.EnumValues); len(removed) > 0 {
		warnings = append(warnings, danger("Enum constants removed in column %s: %s", name, renderList(removed)))
	}
	if added := utils.SetDifference(new.EnumValues, old.EnumValues); len(added) > 0 {
		warnings = append(warnings, info("Enum constants added in column %s: %s", name, renderList(added)))
	}

	if !old.EnumStringMapping && !new.EnumStringMapping {
		oldCommon, newCommon := commonInOrder(old.EnumValues, new.EnumValues), commonInOrder(new.EnumValues, old.EnumValues)
		if !equalStrings(oldCommon, newCommon) {
			warnings = append(warnings, danger("Dangerous enum order change in column %s: ordinal values of existing constants shift (%s -> %s)",
				name, renderList(oldCommon), renderList(newCommon)))
		} else if shifted := shiftedOrdinals(old.EnumValues, new.EnumValues); len(shifted) > 0 {
			warnings = append(warnings, danger("Dangerous enum ordinal shift in column %s: stored ordinals of %s move",
				name, renderList(shifted)))
		}
	}

	if old.EnumStringMapping != new.EnumStringMapping {
		warnings = append(warnings, danger("Enum mapping changed in column %s from %s to %s; stored values must be converted",
			name, enumMappingName(old.EnumStringMapping), enumMappingName(new.EnumStringMapping)))
	}
	return warnings
}

// commonInOrder returns the members of values that also appear in other, keeping the order of values
func commonInOrder(values, other []string) []string {
	in := make(map[string]struct{}, len(other))
	for _, v := range other {
		in[v] = struct{}{}
	}
	out := []string{}
	for _, v := range values {
		if _, ok := in[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// shiftedOrdinals returns the constants present in both lists whose position differs, in old order
func shiftedOrdinals(old, new []string) []string {
	pos := make(map[string]int, len(new))
	for i, v := range new {
		pos[v] = i
	}
	var out []string
	for i, v := range old {
		if j, ok := pos[v]; ok && j != i {
			out = append(out, v)
		}
	}
	return out
}

func enumMappingName(stringMapping bool) string {
	if stringMapping {
		return "STRING"
	}
	return "ORDINAL"
}

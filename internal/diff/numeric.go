package diff

import "strings"

// numericKind is a position in the numeric type lattice
type numericKind int

const (
	notNumeric numericKind = iota
	numByte
	numShort
	numInt
	numLong
	numBigInteger
	numFloat
	numDouble
	numBigDecimal
)

var numericKinds = map[string]numericKind{
	"byte":       numByte,
	"Byte":       numByte,
	"short":      numShort,
	"Short":      numShort,
	"int":        numInt,
	"Integer":    numInt,
	"long":       numLong,
	"Long":       numLong,
	"BigInteger": numBigInteger,
	"float":      numFloat,
	"Float":      numFloat,
	"double":     numDouble,
	"Double":     numDouble,
	"BigDecimal": numBigDecimal,
}

// widening lists, per source kind, every target that represents the full source range.
// int->float and long->float/double lose precision and are deliberately absent.
var widening = map[numericKind][]numericKind{
	numByte:       {numShort, numInt, numLong, numBigInteger, numFloat, numDouble, numBigDecimal},
	numShort:      {numInt, numLong, numBigInteger, numFloat, numDouble, numBigDecimal},
	numInt:        {numLong, numBigInteger, numDouble, numBigDecimal},
	numLong:       {numBigInteger, numBigDecimal},
	numBigInteger: {numBigDecimal},
	numFloat:      {numDouble, numBigDecimal},
	numDouble:     {numBigDecimal},
}

func numericKindOf(javaType string) numericKind {
	name := strings.TrimSpace(javaType)
	name = strings.TrimPrefix(name, "java.lang.")
	name = strings.TrimPrefix(name, "java.math.")
	return numericKinds[name]
}

// conversion classifies a column type change
type conversion int

const (
	conversionNone conversion = iota
	conversionSafe
	conversionDangerous
	conversionNonNumeric
)

func classifyTypeChange(oldType, newType string) conversion {
	if oldType == newType {
		return conversionNone
	}
	from, to := numericKindOf(oldType), numericKindOf(newType)
	if from == notNumeric || to == notNumeric {
		return conversionNonNumeric
	}
	if from == to {
		// boxing change only, e.g. int -> Integer
		return conversionSafe
	}
	for _, k := range widening[from] {
		if k == to {
			return conversionSafe
		}
	}
	return conversionDangerous
}

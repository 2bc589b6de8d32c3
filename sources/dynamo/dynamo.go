// Package dynamo exposes DynamoDB items as writable rows.
package dynamo

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/prosuite/evaluation/object"
)

// Item is a DynamoDB item. Attribute names match exactly, as in DynamoDB.
// Number, string, boolean and null attributes map to the corresponding
// values; any other attribute is exposed as an opaque object.
type Item struct {
	attributes map[string]types.AttributeValue
}

// NewItem wraps attributes. A nil map starts an empty item.
func NewItem(attributes map[string]types.AttributeValue) *Item {
	if attributes == nil {
		attributes = map[string]types.AttributeValue{}
	}
	return &Item{attributes: attributes}
}

// Attributes returns the underlying attribute map, including any values
// written through SetValue.
func (it *Item) Attributes() map[string]types.AttributeValue {
	return it.attributes
}

// Names returns the attribute names in sorted order.
func (it *Item) Names() []string {
	names := make([]string, 0, len(it.attributes))
	for name := range it.attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (it *Item) Exists(name string) bool {
	_, ok := it.attributes[name]
	return ok
}

func (it *Item) GetValue(name string) object.Value {
	av, ok := it.attributes[name]
	if !ok {
		return object.Null
	}
	value, err := Value(av)
	if err != nil {
		return object.Null
	}
	return value
}

func (it *Item) SetValue(name string, value object.Value) error {
	av, err := AttributeValue(value)
	if err != nil {
		return err
	}
	it.attributes[name] = av
	return nil
}

// Value converts an attribute value. It fails only for a malformed number.
func Value(av types.AttributeValue) (object.Value, error) {
	switch av := av.(type) {
	case nil:
		return object.Null, nil
	case *types.AttributeValueMemberNULL:
		return object.Null, nil
	case *types.AttributeValueMemberBOOL:
		return object.NewBool(av.Value), nil
	case *types.AttributeValueMemberS:
		return object.NewString(av.Value), nil
	case *types.AttributeValueMemberN:
		f, err := strconv.ParseFloat(av.Value, 64)
		if err != nil {
			return object.Null, fmt.Errorf("invalid number attribute %q", av.Value)
		}
		return object.NewNumber(f), nil
	default:
		return object.NewObject(av), nil
	}
}

// AttributeValue converts a value for storage in an item. Numbers must be
// finite; opaque objects are stored only if they are attribute values
// themselves.
func AttributeValue(value object.Value) (types.AttributeValue, error) {
	switch {
	case value.IsNull():
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case value.IsBool():
		b, _ := value.Bool()
		return &types.AttributeValueMemberBOOL{Value: b}, nil
	case value.IsString():
		s, _ := value.Str()
		return &types.AttributeValueMemberS{Value: s}, nil
	case value.IsNumber():
		f, _ := value.Number()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("cannot store %s in a number attribute", object.FormatNumber(f))
		}
		return &types.AttributeValueMemberN{Value: object.FormatNumber(f)}, nil
	}
	if o, ok := value.Object(); ok {
		if av, ok := o.(types.AttributeValue); ok {
			return av, nil
		}
	}
	return nil, fmt.Errorf("cannot store a value of type %s in an item", value.Type())
}

// ScanAPI is the part of the DynamoDB client used by Scan.
type ScanAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Scan reads every item of the scan, following pagination.
func Scan(ctx context.Context, client ScanAPI, input *dynamodb.ScanInput) ([]*Item, error) {
	params := *input
	var items []*Item
	for {
		output, err := client.Scan(ctx, &params)
		if err != nil {
			return nil, err
		}
		for _, attributes := range output.Items {
			items = append(items, NewItem(attributes))
		}
		if len(output.LastEvaluatedKey) == 0 {
			return items, nil
		}
		params.ExclusiveStartKey = output.LastEvaluatedKey
	}
}

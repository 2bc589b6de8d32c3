package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"github.com/prosuite/evaluation/fieldsetter"
	"github.com/prosuite/evaluation/object"
)

func TestValue(t *testing.T) {
	list := &types.AttributeValueMemberL{}
	tests := []struct {
		name     string
		input    types.AttributeValue
		expected object.Value
	}{
		{"nil", nil, object.Null},
		{"null", &types.AttributeValueMemberNULL{Value: true}, object.Null},
		{"bool", &types.AttributeValueMemberBOOL{Value: true}, object.True},
		{"string", &types.AttributeValueMemberS{Value: "x"}, object.NewString("x")},
		{"number", &types.AttributeValueMemberN{Value: "-12.5"}, object.NewNumber(-12.5)},
		{"exponent", &types.AttributeValueMemberN{Value: "1E+3"}, object.NewNumber(1000)},
		{"list", list, object.NewObject(list)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := Value(tt.input)
			require.Nil(t, err)
			require.Equal(t, tt.expected, value)
		})
	}

	_, err := Value(&types.AttributeValueMemberN{Value: "twelve"})
	require.EqualError(t, err, `invalid number attribute "twelve"`)
}

func TestAttributeValue(t *testing.T) {
	tests := []struct {
		name     string
		input    object.Value
		expected types.AttributeValue
	}{
		{"null", object.Null, &types.AttributeValueMemberNULL{Value: true}},
		{"bool", object.False, &types.AttributeValueMemberBOOL{Value: false}},
		{"string", object.NewString("s"), &types.AttributeValueMemberS{Value: "s"}},
		{"integer", object.NewNumber(42), &types.AttributeValueMemberN{Value: "42"}},
		{"fraction", object.NewNumber(0.25), &types.AttributeValueMemberN{Value: "0.25"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			av, err := AttributeValue(tt.input)
			require.Nil(t, err)
			require.Equal(t, tt.expected, av)
		})
	}

	_, err := AttributeValue(object.NewNumber(math.Inf(1)))
	require.EqualError(t, err, "cannot store Infinity in a number attribute")

	_, err = AttributeValue(object.NewObject(struct{}{}))
	require.Error(t, err)
}

func TestItem(t *testing.T) {
	item := NewItem(map[string]types.AttributeValue{
		"KUNSTBAUTE": &types.AttributeValueMemberN{Value: "700"},
		"STUFE":      &types.AttributeValueMemberNULL{Value: true},
	})
	require.True(t, item.Exists("STUFE"))
	require.False(t, item.Exists("stufe"))
	require.Equal(t, []string{"KUNSTBAUTE", "STUFE"}, item.Names())

	fs, err := fieldsetter.Create("LEVEL = DECODE(KUNSTBAUTE, 200, 100, 700, -100, 0) + (STUFE ?? 0)")
	require.Nil(t, err)
	require.Nil(t, fs.Execute(item, nil))
	require.Equal(t, &types.AttributeValueMemberN{Value: "-100"}, item.Attributes()["LEVEL"])
	require.Equal(t, object.NewNumber(-100), item.GetValue("LEVEL"))
}

type fakeScanner struct {
	pages []*dynamodb.ScanOutput
	calls []*dynamodb.ScanInput
	err   error
}

func (f *fakeScanner) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	input := *params
	f.calls = append(f.calls, &input)
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func TestScan(t *testing.T) {
	key := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "a"}}
	scanner := &fakeScanner{pages: []*dynamodb.ScanOutput{
		{
			Items:            []map[string]types.AttributeValue{{"id": &types.AttributeValueMemberS{Value: "a"}}},
			LastEvaluatedKey: key,
		},
		{
			Items: []map[string]types.AttributeValue{{"id": &types.AttributeValueMemberS{Value: "b"}}},
		},
	}}
	items, err := Scan(context.Background(), scanner, &dynamodb.ScanInput{TableName: aws.String("roads")})
	require.Nil(t, err)
	require.Len(t, items, 2)
	require.Equal(t, object.NewString("b"), items[1].GetValue("id"))
	require.Len(t, scanner.calls, 2)
	require.Nil(t, scanner.calls[0].ExclusiveStartKey)
	require.Equal(t, key, scanner.calls[1].ExclusiveStartKey)
	require.Equal(t, "roads", aws.ToString(scanner.calls[1].TableName))

	_, err = Scan(context.Background(), &fakeScanner{err: errors.New("throttled")}, &dynamodb.ScanInput{})
	require.EqualError(t, err, "throttled")
}

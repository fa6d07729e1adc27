package schema_test

import (
	"testing"

	"go.followtheprocess.codes/haml/internal/schema"
	"go.followtheprocess.codes/test"
)

func TestString(t *testing.T) {
	tests := []struct {
		name string      // Name of the test case
		want string      // Expected canonical source
		file schema.File // File under test
	}{
		{
			name: "empty",
			file: schema.File{},
			want: "",
		},
		{
			name: "package only",
			file: schema.File{Package: "http.request"},
			want: "package http.request;\n",
		},
		{
			name: "imports only",
			file: schema.File{
				Imports: []schema.Import{{Path: "testing"}, {Path: "other/types.haml"}},
			},
			want: "import \"testing\";\nimport \"other/types.haml\";\n",
		},
		{
			name: "package and imports",
			file: schema.File{
				Package: "one.two",
				Imports: []schema.Import{{Path: "testing", File: "schemas/testing.haml"}},
			},
			want: "package one.two;\n\nimport \"testing\";\n",
		},
		{
			name: "empty struct",
			file: schema.File{
				Declarations: []schema.Declaration{
					{Name: "Empty", Kind: schema.KindStruct, Block: schema.BlockFields},
				},
			},
			want: "struct Empty {}\n",
		},
		{
			name: "annotated constructor",
			file: schema.File{
				Package: "http.request",
				Imports: []schema.Import{{Path: "testing"}},
				Declarations: []schema.Declaration{
					{
						Name:        "api",
						Kind:        schema.KindConstructor,
						Annotations: []string{"singleton", "route"},
						Block:       schema.BlockFields,
						Fields: []schema.Field{
							{Name: "get", Type: "int64"},
							{Name: "lookup", Type: "map<string, User>", Optional: true},
						},
					},
				},
			},
			want: `package http.request;

import "testing";

@singleton
@route
constructor api {
    get: int64;
    lookup?: map<string, User>;
}
`,
		},
		{
			name: "blocks",
			file: schema.File{
				Declarations: []schema.Declaration{
					{
						Name:   "Shape",
						Kind:   schema.KindStruct,
						Block:  schema.BlockUnion,
						Fields: []schema.Field{{Name: "circle", Type: "Circle"}, {Name: "square", Type: "Square"}},
					},
					{
						Name:   "Tags",
						Kind:   schema.KindStruct,
						Block:  schema.BlockRepeatable,
						Fields: []schema.Field{{Name: "tag", Type: "string"}},
					},
					{
						Name:  "Lookup",
						Kind:  schema.KindStruct,
						Block: schema.BlockAlias,
						Alias: "map<string, uint64>",
					},
				},
			},
			want: `struct Shape {
    union {
        circle: Circle;
        square: Square;
    }
}

struct Tags {
    repeatable {
        tag: string;
    }
}

struct Lookup {
    map<string, uint64>
}
`,
		},
		{
			name: "annotations",
			file: schema.File{
				Declarations: []schema.Declaration{
					{
						Name: "route",
						Kind: schema.KindAnnotation,
						AnnotationFields: []schema.AnnotationField{
							{Name: "path", Value: "/users", Kind: schema.ValueString},
							{Name: "retries", Value: "3", Kind: schema.ValueInt, Optional: true},
							{Name: "ratio", Value: "0.5", Kind: schema.ValueFloat},
							{Name: "body", Value: "string", Kind: schema.ValueType},
						},
					},
					{
						Name: "marker",
						Kind: schema.KindAnnotation,
					},
				},
			},
			want: `annotation route {
    path: "/users",
    retries?: 3,
    ratio: 0.5,
    body: string,
}

annotation marker {}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.Diff(t, tt.file.String(), tt.want)
		})
	}
}

func TestLookup(t *testing.T) {
	file := schema.File{
		Declarations: []schema.Declaration{
			{Name: "User", Kind: schema.KindStruct},
			{Name: "api", Kind: schema.KindConstructor},
		},
	}

	decl, ok := file.Lookup("api")
	test.True(t, ok)
	test.Equal(t, decl.Kind, schema.KindConstructor)

	_, ok = file.Lookup("missing")
	test.True(t, !ok)
}

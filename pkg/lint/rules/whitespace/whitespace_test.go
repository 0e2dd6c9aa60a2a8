package whitespace_test

import (
	"testing"

	"github.com/leapstack-labs/sniff/pkg/lint/linttest"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/whitespace"
)

func TestCommaSpacing(t *testing.T) {
	linttest.Run(t, "CodingStandard.WhiteSpace.CommaSpacing", []linttest.Case{
		{
			Name:   "well spaced",
			Source: "<?php\nfoo($a, $b);\n$c = array(1,\n    2);\nlist(, , $d) = $e;\nbar($a,);\n",
			NoFix:  true,
		},
		{
			Name:   "no space after",
			Source: "<?php\nfoo($a,$b);\n",
			Errors: map[int]int{2: 1},
			Fixed:  "<?php\nfoo($a, $b);\n",
		},
		{
			Name:   "space before",
			Source: "<?php\nfoo($a , $b);\n",
			Errors: map[int]int{2: 1},
			Fixed:  "<?php\nfoo($a, $b);\n",
		},
		{
			Name:   "both sides",
			Source: "<?php\nfoo($a ,$b);\n",
			Errors: map[int]int{2: 2},
			Fixed:  "<?php\nfoo($a, $b);\n",
		},
		{
			Name:   "too many after",
			Source: "<?php\nfoo($a,   $b);\n",
			Errors: map[int]int{2: 1},
			Fixed:  "<?php\nfoo($a, $b);\n",
		},
		{
			Name:   "space before closing parenthesis",
			Source: "<?php\nfoo($a, );\n",
			Errors: map[int]int{2: 1},
			Fixed:  "<?php\nfoo($a,);\n",
		},
	})
}

const controlID = "CodingStandard.WhiteSpace.ControlStructureSpacing"

func TestControlStructureSpacing(t *testing.T) {
	linttest.Run(t, controlID, []linttest.Case{
		{
			Name: "well formed",
			Source: `<?php
$a = 1;

if ( $a ) {
    $b = 2;
}
else {
    $b = 3;
}

while ( $a ) {
    $a--;
}
`,
			NoFix: true,
		},
		{
			Name:   "condition padding",
			Source: "<?php\nif ($a) {\n    $b = 2;\n}\n",
			Errors: map[int]int{2: 2},
			Fixed:  "<?php\nif ( $a ) {\n    $b = 2;\n}\n",
		},
		{
			Name:   "excess condition padding",
			Source: "<?php\nforeach (  $a as $b   ) {\n    echo $b;\n}\n",
			Errors: map[int]int{2: 2},
			Fixed:  "<?php\nforeach ( $a as $b ) {\n    echo $b;\n}\n",
		},
		{
			Name:    "padding option",
			Source:  "<?php\nif ( $a ) {\n    $b = 2;\n}\n",
			Options: map[string]any{"required_spaces_after_open": 0, "required_spaces_before_close": 0},
			Errors:  map[int]int{2: 2},
			Fixed:   "<?php\nif ($a) {\n    $b = 2;\n}\n",
		},
		{
			Name:   "multi-line condition",
			Source: "<?php\nif (\n    $a\n    && $b\n) {\n    $c = 2;\n}\n",
		},
		{
			Name:   "blank lines inside body",
			Source: "<?php\nif ( $a ) {\n\n    $b = 2;\n\n}\n",
			Errors: map[int]int{2: 1, 6: 1},
			Fixed:  "<?php\nif ( $a ) {\n    $b = 2;\n}\n",
		},
		{
			Name:   "no blank lines around",
			Source: "<?php\n$a = 1;\nif ( $a ) {\n    $b = 2;\n}\n$c = 3;\n",
			Errors: map[int]int{3: 1, 5: 1},
			Fixed:  "<?php\n$a = 1;\n\nif ( $a ) {\n    $b = 2;\n}\n\n$c = 3;\n",
		},
		{
			Name:   "function body edges",
			Source: "<?php\nfunction foo()\n{\n    if ( $a ) {\n        $b = 2;\n    }\n\n}\n",
		},
		{
			Name: "nested blocks",
			Source: `<?php
if ( $a ) {

    if ( $b ) {
        $c = 1;
    }

}
`,
			Errors: map[int]int{2: 1, 4: 1, 6: 1, 8: 1},
			Fixed:  "<?php\nif ( $a ) {\n    if ( $b ) {\n        $c = 1;\n    }\n}\n",
		},
		{
			Name: "nested after statement",
			Source: `<?php
if ( $a ) {
    $b = 1;

    if ( $b ) {
        $c = 1;
    }
}
`,
		},
		{
			Name: "inside case",
			Source: `<?php
switch ( $a ) {
    case 1:

        if ( $b ) {
            $c = 1;
        }

        break;
}
`,
			Errors: map[int]int{5: 1, 7: 1},
			Fixed:  "<?php\nswitch ( $a ) {\n    case 1:\n        if ( $b ) {\n            $c = 1;\n        }\n        break;\n}\n",
		},
		{
			Name:   "comment belongs to block",
			Source: "<?php\n$a = 1;\n\n// Check it.\nif ( $a ) {\n    $b = 2;\n}\n",
		},
		{
			Name:   "comment without blank line",
			Source: "<?php\n$a = 1;\n// Check it.\nif ( $a ) {\n    $b = 2;\n}\n",
			Errors: map[int]int{4: 1},
			Fixed:  "<?php\n$a = 1;\n\n// Check it.\nif ( $a ) {\n    $b = 2;\n}\n",
		},
		{
			Name:   "do while",
			Source: "<?php\ndo {\n    $a--;\n} while ( $a );\n$b = 1;\n",
			Errors: map[int]int{4: 1},
			Fixed:  "<?php\ndo {\n    $a--;\n} while ( $a );\n\n$b = 1;\n",
		},
		{
			Name:   "blank line before elseif",
			Source: "<?php\nif ( $a ) {\n    $b = 1;\n}\n\nelseif ( $c ) {\n    $b = 2;\n}\n",
			Errors: map[int]int{6: 1},
			Fixed:  "<?php\nif ( $a ) {\n    $b = 1;\n}\nelseif ( $c ) {\n    $b = 2;\n}\n",
		},
		{
			Name:   "javascript",
			Path:   "test.js",
			Source: "var a = 1;\nif ( a ) {\n    a = 2;\n}\n",
			Errors: map[int]int{2: 1},
			Fixed:  "var a = 1;\n\nif ( a ) {\n    a = 2;\n}\n",
		},
	})
}

package classes_test

import (
	"testing"

	"github.com/leapstack-labs/sniff/pkg/lint/linttest"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/classes"
)

func TestClassCreateInstance(t *testing.T) {
	linttest.Run(t, "CodingStandard.Classes.ClassCreateInstance", []linttest.Case{
		{
			Name:   "with parentheses",
			Source: "<?php\n$a = new Foo();\n$b = new \\Bar\\Baz(1);\n$c = new class {\n};\n",
			NoFix:  true,
		},
		{
			Name:   "missing parentheses",
			Source: "<?php\n$a = new Foo;\n$b = new \\Bar\\Baz;\n",
			Errors: map[int]int{2: 1, 3: 1},
			Fixed:  "<?php\n$a = new Foo();\n$b = new \\Bar\\Baz();\n",
		},
		{
			Name:   "variable class name",
			Source: "<?php\n$a = new $class;\n",
			Errors: map[int]int{2: 1},
			Fixed:  "<?php\n$a = new $class();\n",
		},
		{
			Name:   "space before parenthesis",
			Source: "<?php\n$a = new Foo ();\n",
			Errors: map[int]int{2: 1},
			Fixed:  "<?php\n$a = new Foo();\n",
		},
		{
			Name:   "inside call arguments",
			Source: "<?php\nf(new Foo, new Bar());\n",
			Errors: map[int]int{2: 1},
			Fixed:  "<?php\nf(new Foo(), new Bar());\n",
		},
	})
}

func TestClassDeclaration(t *testing.T) {
	linttest.Run(t, "CodingStandard.Classes.ClassDeclaration", []linttest.Case{
		{
			Name:   "well formed",
			Source: "<?php\nclass Foo\n{\n    public $a;\n}\n\nfunction bar()\n{\n}\n",
			NoFix:  true,
		},
		{
			Name:   "end comment after brace",
			Source: "<?php\nclass Foo\n{\n}//end class\n\n$a = 1;\n",
		},
		{
			Name:   "brace on declaration line",
			Source: "<?php\nclass Foo {\n    public $a;\n}\n",
			Errors: map[int]int{2: 1},
			Fixed:  "<?php\nclass Foo\n{\n    public $a;\n}\n",
		},
		{
			Name:   "blank lines around body",
			Source: "<?php\nclass Foo\n\n{\n    public $a;\n\n    }\n",
			Errors: map[int]int{4: 1, 7: 2},
			Fixed:  "<?php\nclass Foo\n{\n    public $a;\n}\n",
		},
		{
			Name:   "closing brace after content",
			Source: "<?php\nclass Foo\n{\n    public $a; }\n",
			Errors: map[int]int{4: 1},
			Fixed:  "<?php\nclass Foo\n{\n    public $a;\n}\n",
		},
		{
			Name:   "indented keyword",
			Source: "<?php\n  interface Foo\n{\n}\n",
			Errors: map[int]int{2: 1},
			Fixed:  "<?php\ninterface Foo\n{\n}\n",
		},
		{
			Name:   "no blank line after body",
			Source: "<?php\nclass Foo\n{\n}\nfunction bar()\n{\n}\n",
			Errors: map[int]int{4: 1},
			Fixed:  "<?php\nclass Foo\n{\n}\n\nfunction bar()\n{\n}\n",
		},
		{
			Name:   "too many blank lines after body",
			Source: "<?php\ntrait Foo\n{\n}\n\n\n\nfunction bar()\n{\n}\n",
			Errors: map[int]int{4: 1},
			Fixed:  "<?php\ntrait Foo\n{\n}\n\nfunction bar()\n{\n}\n",
		},
	})
}

func TestClassNamespace(t *testing.T) {
	linttest.Run(t, "CodingStandard.Classes.ClassNamespace", []linttest.Case{
		{
			Name:   "namespaced",
			Source: "<?php\nnamespace Vendor;\n\nclass Foo\n{\n}\n",
		},
		{
			Name:   "global namespace",
			Source: "<?php\nclass Foo\n{\n}\ninterface Bar\n{\n}\n",
			Errors: map[int]int{2: 1, 5: 1},
		},
	})
}

func TestPropertyDeclaration(t *testing.T) {
	linttest.Run(t, "CodingStandard.Classes.PropertyDeclaration", []linttest.Case{
		{
			Name: "well formed",
			Source: "<?php\nclass Foo\n{\n    public $a;\n    private static $b = array($c);\n    protected $d = 1;\n\n" +
				"    public function f($x)\n    {\n        $y = 1;\n    }\n}\n",
			NoFix: true,
		},
		{
			Name:   "violations",
			Source: "<?php\nclass Foo\n{\n    var $a;\n    public $b, $c;\n    static\n    $d;\n}\n",
			Errors: map[int]int{4: 2, 5: 1, 7: 1},
			Fixed:  "<?php\nclass Foo\n{\n    public $a;\n    public $b, $c;\n    static\n    $d;\n}\n",
		},
	})
}

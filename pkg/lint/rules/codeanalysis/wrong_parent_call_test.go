package codeanalysis_test

import (
	"testing"

	"github.com/leapstack-labs/sniff/pkg/lint/linttest"
	_ "github.com/leapstack-labs/sniff/pkg/lint/rules/codeanalysis"
)

func TestWrongParentCall(t *testing.T) {
	linttest.Run(t, "CodingStandard.CodeAnalysis.WrongParentCall", []linttest.Case{
		{
			Name: "same method",
			Source: "<?php\nclass A extends B\n{\n    public function foo()\n    {\n" +
				"        parent::foo();\n        $f = function () {\n            return parent::foo();\n        };\n" +
				"        return parent::LIMIT;\n    }\n}\n",
		},
		{
			Name: "other method",
			Source: "<?php\nclass A extends B\n{\n    public function foo()\n    {\n" +
				"        parent::foo();\n        parent::bar();\n    }\n}\n",
			Errors: map[int]int{7: 1},
		},
		{
			Name:   "outside a method",
			Source: "<?php\nparent::bar();\n",
		},
	})
}

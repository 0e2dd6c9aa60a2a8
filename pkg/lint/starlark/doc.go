// Package starlark loads user-defined rules written in Starlark. A rule file
// declares rules with the rule builtin; each declared rule is a regular
// lint.RuleDef marked Custom and is dispatched like the built-in rules.
//
//	def check(ctx):
//	    tok = ctx.token
//	    if tok.content == "eval":
//	        ctx.error("Found", "eval() is forbidden")
//
//	rule(
//	    id = "Acme.Security.NoEval",
//	    description = "Forbids eval()",
//	    register = ["T_EVAL", "T_STRING"],
//	    check = check,
//	)
//
// The check receives a ctx value with:
//
//	ctx.ptr                    index of the token being dispatched
//	ctx.token                  that token (see below)
//	ctx.file                   the file: path, language, eol, len, token(i),
//	                           find_next(kinds, start, until=-1),
//	                           find_previous(kinds, start, until=-1),
//	                           next_non_empty(i), prev_non_empty(i),
//	                           first_on_line(i), tokens_as_string(start, length)
//	ctx.options                the rule's options merged over its defaults
//	ctx.error(code, message, ptr=None, fix=None)
//	ctx.warning(code, message, ptr=None, fix=None)
//
// Tokens are structs with index, kind (a T_* name), content, line, column and
// the structural indices paren_opener, paren_closer, paren_owner,
// bracket_opener, bracket_closer, scope_opener, scope_closer and
// scope_condition (-1 when unset). A fix is a list of edits, each one of
// ("replace", i, text), ("delete", i), ("insert_before", i, text) or
// ("insert_after", i, text); the edits of one report form one changeset.
package starlark

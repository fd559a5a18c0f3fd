// Calc is an example calculator program, built directly on the peg package's
// Element constructors rather than a compiled grammar file.
package main

import (
	"bufio"
	"fmt"
	"math/big"
	"os"

	"github.com/go-peg/peg"
)

var (
	exprID    = peg.NewRuleID("Expr")
	sumID     = peg.NewRuleID("Sum")
	addOpID   = peg.NewRuleID("AddOp")
	productID = peg.NewRuleID("Product")
	mulOpID   = peg.NewRuleID("MulOp")
	valueID   = peg.NewRuleID("Value")
	numID     = peg.NewRuleID("Num")
	wsID      = peg.NewRuleID("_")
)

// ws matches (and hides) the whitespace the _ rule consumes; used at every
// point in the grammar where leading space may appear.
func ws() peg.Element {
	return peg.RuleRef(wsID).Hide()
}

func grammar() *peg.Registry {
	module := []peg.Rule{
		{ID: wsID, Element: peg.CharClass(`\s`).Min(0)},
		{ID: numID, Element: peg.Sequence(
			peg.CharClass(`[0-9]`).Min(1),
			peg.Sequence(peg.String("."), peg.CharClass(`[0-9]`).Min(1)).Optional(),
		)},
		{ID: valueID, Element: peg.Choice(
			peg.Sequence(ws(), peg.RuleRef(numID)),
			peg.Sequence(ws(), peg.String("(").Hide(), peg.RuleRef(sumID), ws(), peg.String(")").Hide()),
		)},
		{ID: mulOpID, Element: peg.Choice(
			peg.Sequence(ws(), peg.String("*")),
			peg.Sequence(ws(), peg.String("/")),
		)},
		{ID: productID, Element: peg.Sequence(
			peg.RuleRef(valueID),
			peg.Sequence(peg.RuleRef(mulOpID), peg.RuleRef(valueID)).Min(0),
		)},
		{ID: addOpID, Element: peg.Choice(
			peg.Sequence(ws(), peg.String("+")),
			peg.Sequence(ws(), peg.String("-")),
		)},
		{ID: sumID, Element: peg.Sequence(
			peg.RuleRef(productID),
			peg.Sequence(peg.RuleRef(addOpID), peg.RuleRef(productID)).Min(0),
		)},
		{ID: exprID, Element: peg.Sequence(
			peg.RuleRef(sumID),
			ws(),
			peg.Wildcard().NegLook(),
		)},
	}

	reg := peg.NewRegistry()
	if err := reg.AddModule(module); err != nil {
		panic(err)
	}
	return reg
}

func main() {
	reg := grammar()
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		tree, err := reg.Parse(line, exprID)
		if err != nil {
			fmt.Println(err)
			continue
		}
		sum, ok := tree.Root.Children[0].(*peg.Node)
		if !ok {
			fmt.Println("calc: malformed Expr")
			continue
		}
		result, err := evalSum(sum)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(result.Text('g', 10))
	}
	if err := scanner.Err(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// evalSum and evalProduct both walk a flat, alternating children list:
// lhs, op, rhs, op, rhs, ... produced by the Sum/Product rules' trailing
// Loop, which (having no Group around it) leaves its matches unwrapped in
// the parent's child list.

func evalSum(n *peg.Node) (*big.Float, error) {
	result, err := evalProduct(n.Children[0].(*peg.Node))
	if err != nil {
		return nil, err
	}
	for i := 1; i+1 < len(n.Children); i += 2 {
		rhs, err := evalProduct(n.Children[i+1].(*peg.Node))
		if err != nil {
			return nil, err
		}
		result, err = applyOp(n.Children[i].(*peg.Node), result, rhs)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func evalProduct(n *peg.Node) (*big.Float, error) {
	result, err := evalValue(n.Children[0].(*peg.Node))
	if err != nil {
		return nil, err
	}
	for i := 1; i+1 < len(n.Children); i += 2 {
		rhs, err := evalValue(n.Children[i+1].(*peg.Node))
		if err != nil {
			return nil, err
		}
		result, err = applyOp(n.Children[i].(*peg.Node), result, rhs)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func evalValue(n *peg.Node) (*big.Float, error) {
	if len(n.Children) != 1 {
		return nil, fmt.Errorf("calc: malformed Value")
	}
	child, ok := n.Children[0].(*peg.Node)
	if !ok {
		return nil, fmt.Errorf("calc: malformed Value")
	}
	switch child.Name {
	case "Num":
		f, _, err := big.ParseFloat(peg.JoinChildren(child), 10, 0, big.ToNearestEven)
		if err != nil {
			return nil, fmt.Errorf("calc: %w", err)
		}
		return f, nil
	case "Sum":
		return evalSum(child)
	default:
		return nil, fmt.Errorf("calc: unexpected %q in Value", child.Name)
	}
}

func applyOp(opNode *peg.Node, l, r *big.Float) (*big.Float, error) {
	leaf, ok := opNode.Children[0].(*peg.Leaf)
	if !ok {
		return nil, fmt.Errorf("calc: malformed operator")
	}
	switch leaf.Value {
	case "+":
		return new(big.Float).Add(l, r), nil
	case "-":
		return new(big.Float).Sub(l, r), nil
	case "*":
		return new(big.Float).Mul(l, r), nil
	case "/":
		return new(big.Float).Quo(l, r), nil
	default:
		return nil, fmt.Errorf("calc: unknown operator %q", leaf.Value)
	}
}

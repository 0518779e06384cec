package lang_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ardnew/quill/lang"
)

func ExampleRun() {
	env := lang.NewEnv(lang.WithOutput(os.Stdout))

	v, err := lang.Run(context.Background(), "let a = 1.5 + 2\nprint(a, 7 % 3)", env)
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(v)

	// Output:
	// 3.5, 1
	// NULL
}

func ExampleRun_parseError() {
	_, err := lang.Run(context.Background(), "let a = )", nil)

	var pe *lang.ParseError
	if errors.As(err, &pe) {
		for _, e := range pe.Errors() {
			fmt.Println(e)
		}
	}

	// Output:
	// SyntaxError: unexpected close parenthesis ")" at line 1, column 9
}

func ExampleEnv_Names() {
	env := lang.NewEnv()

	_, err := lang.Run(context.Background(), "let b = 2\nlet a = b ^ 10", env)
	if err != nil {
		fmt.Println(err)

		return
	}

	for _, name := range env.Names() {
		v, _ := env.Lookup(name)
		fmt.Printf("%s = %v (%s)\n", name, v, v.TypeName())
	}

	// Output:
	// a = 1024 (integer)
	// b = 2 (integer)
	// print = print (native function)
}

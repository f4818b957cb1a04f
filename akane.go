// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// akane is the semantic core of a compiler for a small, statically-typed, curried functional language.
//
// A Session analyzes the definitions produced by the parser: it resolves names through nested
// qualifications, checks every application against the callee's arrow type, and monomorphizes
// generic functions, recording one instantiation per distinct type environment observed at a
// call site. The codegen package lowers an analyzed session into native functions.
//
//
// Language:
//
//   fn id x : a -> a = x;
//   fn twice f x : (a -> a) -> a -> a = f (f x);
//   fn inc x = x + 1;
//   fn main = twice inc (id 40)
//
// Definitions without an annotation take and return 64-bit integers. Lowercase names in an
// annotation are type variables of the annotated function. The builtins `add`, `sub`, `mul`,
// `div` (`a -> a -> a`) and `pipe` (`a -> (a -> b) -> b`) are available as functions and through
// the operators `+`, `-`, `*`, `/` and `|>`.
//
//
// Supported Features:
//
//   * Parametric polymorphism through explicit annotations, monomorphized per call site
//   * Deduplicated instantiations with canonical mangled names (`id.I64`, `twice.F64`)
//   * Function-typed parameters and (generic) functions passed as arguments
//   * Forward references and recursion between top-level definitions
//
//
// Links:
//
// Hindley-Milner type system: https://en.wikipedia.org/wiki/Hindley–Milner_type_system
//
// Monomorphization: https://en.wikipedia.org/wiki/Monomorphization
package akane

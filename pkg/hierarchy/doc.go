// Package hierarchy defines the upstream payloads an org chart is built from
// and the validation boundary that guards them.
//
// Three shapes are accepted, selected by the Kind discriminator:
//
//   - [KindFlat]: a chief executive plus a flat list of departments, each
//     with an optional manager and an employee list.
//   - [KindDepartments]: a department-only tree.
//   - [KindHierarchy]: a tree of organisational units carrying managers and
//     employees.
//
// [Decode] reads JSON or YAML, infers the kind when it is omitted, and runs
// [Validate]. A payload that fails is rejected with an INVALID_PAYLOAD or
// INVALID_KIND error and must not reach the model builder, which assumes
// well-formed input.
package hierarchy

/*
Package assembly renders an application draft into its two final forms.

  - Assemble returns the structured document: a deep copy of the draft with the
    completion timestamp set and the SSN mask re-applied.
  - Summary returns a deterministic plain-text narrative, one "- Label: value"
    line per section, used both for the pre-final review and the final output.

Both are pure: calling them never changes the draft they are given.
*/
package assembly

// Package plan turns a record graph into a generation plan.
//
// Resolution pipeline:
//  1. Detect predecessor cycles and fail the units that contain them
//  2. Resolve each record's declared base by name; an unknown name is
//     reported and the record is planned without migration support
//  3. Assign every record its version tag
//  4. Collect, per record, the records of other units it refers to
//
// The plan is read-only once built; the generator fans out over its units.
package plan

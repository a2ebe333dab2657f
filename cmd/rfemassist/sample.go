package main

// samplePayload is the function-call answer replayed by -fake runs: a
// simply supported 10 m C30/37 beam under a 10 kN/m line load.
const samplePayload = `{
  "project_name": "Concrete beam",
  "filename": "beam.rf6",
  "materials": [{"no": 1, "name": "C30/37"}],
  "sections": [{"no": 1, "section_type": "RECTANGULAR", "material_no": 1, "width": 0.3, "height": 0.5}],
  "thicknesses": [{"no": 1, "name": "Beam web", "material_no": 1, "uniform_thickness_d": 0.3}],
  "nodes": [
    {"no": 1, "coordinate_X": 0, "coordinate_Y": 0, "coordinate_Z": 0},
    {"no": 2, "coordinate_X": 10, "coordinate_Y": 0, "coordinate_Z": 0}
  ],
  "members": [{"no": 1, "start_node_no": 1, "end_node_no": 2, "start_section_no": 1}],
  "surfaces": [{"no": 1, "thickness_no": 1, "boundary_lines": [1]}],
  "loads": [{
    "no": 1, "load_case_no": 1, "load_type": "MEMBER", "magnitude": 10000, "applied_to": [1],
    "member_load": {"load_direction": "LOAD_DIRECTION_GLOBAL_Z_OR_USER_DEFINED_W_TRUE"}
  }]
}`
